package module_server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/signet-tech/signet/module_store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	t.Setenv("STORE_FILE_PATH", filepath.Join(t.TempDir(), "signet_config.json"))
	sh := new(module_store.StoreHolder)
	sh.Store = new(module_store.ModuleFileStore)
	serverRouter := mux.NewRouter()
	AddModuleRoutes(serverRouter, sh)
	return serverRouter
}

func doRequest(t *testing.T, serverRouter *mux.Router, method string, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reqBody)
	rec := httptest.NewRecorder()
	serverRouter.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	res := make(map[string]interface{})
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func setupSigner(t *testing.T, serverRouter *mux.Router) {
	t.Helper()
	rec := doRequest(t, serverRouter, http.MethodPost, "/store/project1/save", nil)
	require.Equal(t, 200, rec.Code)
	rec = doRequest(t, serverRouter, http.MethodPost, "/store/project1/save/signer/LOCAL",
		map[string]interface{}{"signer_type": "LOCAL", "signer_name": "signer1"})
	require.Equal(t, 200, rec.Code, rec.Body.String())
	rec = doRequest(t, serverRouter, http.MethodPost, "/signing/project1/signer1/keypair/generate", nil)
	require.Equal(t, 200, rec.Code, rec.Body.String())
}

func TestProjectHandlers(t *testing.T) {
	serverRouter := newTestRouter(t)

	rec := doRequest(t, serverRouter, http.MethodPost, "/store/project1/save", nil)
	assert.Equal(t, 200, rec.Code)

	rec = doRequest(t, serverRouter, http.MethodPost, "/store/project1/save", nil)
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, decodeResponse(t, rec)["error"], "already exists")

	rec = doRequest(t, serverRouter, http.MethodGet, "/store/project/list", nil)
	assert.Equal(t, 200, rec.Code)
	res := decodeResponse(t, rec)
	assert.Len(t, res["projects"], 1)

	rec = doRequest(t, serverRouter, http.MethodGet, "/store/project1/config", nil)
	assert.Equal(t, 200, rec.Code)

	rec = doRequest(t, serverRouter, http.MethodDelete, "/store/project1/remove", nil)
	assert.Equal(t, 200, rec.Code)
}

func TestSignerSaveHandlerInvalidType(t *testing.T) {
	serverRouter := newTestRouter(t)
	rec := doRequest(t, serverRouter, http.MethodPost, "/store/project1/save", nil)
	require.Equal(t, 200, rec.Code)

	rec = doRequest(t, serverRouter, http.MethodPost, "/store/project1/save/signer/VAULT",
		map[string]interface{}{"signer_type": "VAULT", "signer_name": "signer1"})
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, decodeResponse(t, rec)["error"], "invalid signer type")
}

func TestKeyPairGenerateHandler(t *testing.T) {
	serverRouter := newTestRouter(t)
	setupSigner(t, serverRouter)

	rec := doRequest(t, serverRouter, http.MethodGet, "/signing/project1/signer1/publickey", nil)
	require.Equal(t, 200, rec.Code)
	res := decodeResponse(t, rec)
	assert.NotEmpty(t, res["key_id"])
	assert.Equal(t, "ES256", res["algorithm"])
	assert.NotEmpty(t, res["public_key"])
	assert.NotContains(t, rec.Body.String(), "private_key")
}

func TestKeyPairRotateHandler(t *testing.T) {
	serverRouter := newTestRouter(t)
	setupSigner(t, serverRouter)

	rec := doRequest(t, serverRouter, http.MethodGet, "/signing/project1/signer1/publickey", nil)
	require.Equal(t, 200, rec.Code)
	keyId := decodeResponse(t, rec)["key_id"]

	rec = doRequest(t, serverRouter, http.MethodPost, "/signing/project1/signer1/keypair/rotate", nil)
	require.Equal(t, 200, rec.Code)
	assert.NotEqual(t, keyId, decodeResponse(t, rec)["key_id"])
}

func TestPublicKeyPemFormat(t *testing.T) {
	serverRouter := newTestRouter(t)
	setupSigner(t, serverRouter)

	rec := doRequest(t, serverRouter, http.MethodGet, "/signing/project1/signer1/publickey?format=pem", nil)
	require.Equal(t, 200, rec.Code)
	res := decodeResponse(t, rec)
	assert.Contains(t, res["public_key_pem"], "BEGIN PUBLIC KEY")
}

func TestSignAndVerifyHandlers(t *testing.T) {
	serverRouter := newTestRouter(t)
	setupSigner(t, serverRouter)

	message := base64.StdEncoding.EncodeToString([]byte("payload to sign"))
	rec := doRequest(t, serverRouter, http.MethodPost, "/signing/project1/signer1/sign",
		map[string]interface{}{"message": message})
	require.Equal(t, 200, rec.Code, rec.Body.String())
	res := decodeResponse(t, rec)
	signature := res["signature"]
	require.NotEmpty(t, signature)

	rec = doRequest(t, serverRouter, http.MethodPost, "/signing/project1/signer1/verify",
		map[string]interface{}{"message": message, "signature": signature})
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, true, decodeResponse(t, rec)["valid"])

	tampered := base64.StdEncoding.EncodeToString([]byte("tampered payload"))
	rec = doRequest(t, serverRouter, http.MethodPost, "/signing/project1/signer1/verify",
		map[string]interface{}{"message": tampered, "signature": signature})
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, false, decodeResponse(t, rec)["valid"])
}

func TestSignHandlerRejectsBadBase64(t *testing.T) {
	serverRouter := newTestRouter(t)
	setupSigner(t, serverRouter)

	rec := doRequest(t, serverRouter, http.MethodPost, "/signing/project1/signer1/sign",
		map[string]interface{}{"message": "not base64 !!!"})
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, decodeResponse(t, rec)["error"], "base64")
}

func TestTokenHandlers(t *testing.T) {
	serverRouter := newTestRouter(t)
	setupSigner(t, serverRouter)

	rec := doRequest(t, serverRouter, http.MethodPost, "/signing/project1/signer1/token",
		map[string]interface{}{"claims": map[string]interface{}{"sub": "user-1"}})
	require.Equal(t, 200, rec.Code, rec.Body.String())
	token := decodeResponse(t, rec)["token"]
	require.NotEmpty(t, token)

	rec = doRequest(t, serverRouter, http.MethodPost, "/signing/project1/token/verify",
		map[string]interface{}{"token": token})
	require.Equal(t, 200, rec.Code, rec.Body.String())
	claims, ok := decodeResponse(t, rec)["claims"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "user-1", claims["sub"])
}

func TestTokenVerifyRouteWinsOverSignerVerify(t *testing.T) {
	serverRouter := newTestRouter(t)
	setupSigner(t, serverRouter)

	// a bad token must reach the token handler and fail on token parsing,
	// not get captured by the {signername}/verify route and bounce off its
	// body decoder
	rec := doRequest(t, serverRouter, http.MethodPost, "/signing/project1/token/verify",
		map[string]interface{}{"token": "not.a.token"})
	require.Equal(t, 400, rec.Code)
	errMsg, ok := decodeResponse(t, rec)["error"].(string)
	require.True(t, ok)
	assert.NotContains(t, errMsg, "unknown field")

	// the wildcard verify route still serves signers
	message := base64.StdEncoding.EncodeToString([]byte("payload"))
	rec = doRequest(t, serverRouter, http.MethodPost, "/signing/project1/signer1/sign",
		map[string]interface{}{"message": message})
	require.Equal(t, 200, rec.Code, rec.Body.String())
	signature := decodeResponse(t, rec)["signature"]
	rec = doRequest(t, serverRouter, http.MethodPost, "/signing/project1/signer1/verify",
		map[string]interface{}{"message": message, "signature": signature})
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, true, decodeResponse(t, rec)["valid"])
}

func TestKeySetHandler(t *testing.T) {
	serverRouter := newTestRouter(t)
	setupSigner(t, serverRouter)

	rec := doRequest(t, serverRouter, http.MethodGet, "/signing/project1/jwks", nil)
	require.Equal(t, 200, rec.Code, rec.Body.String())
	res := decodeResponse(t, rec)
	keys, ok := res["keys"].([]interface{})
	require.True(t, ok)
	require.Len(t, keys, 1)
	jwkKey, ok := keys[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "EC", jwkKey["kty"])
	assert.Equal(t, "P-256", jwkKey["crv"])
	assert.Equal(t, "ES256", jwkKey["alg"])
	assert.NotEmpty(t, jwkKey["kid"])
}
