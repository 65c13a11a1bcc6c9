package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	eruecdsa "github.com/signet-tech/signet/crypto/ecdsa"
	logs "github.com/signet-tech/signet/logs"
	"github.com/signet-tech/signet/module_store"
	server_handlers "github.com/signet-tech/signet/server/handlers"
)

type keyPairRequest struct {
	Passphrase string `json:"passphrase"`
}

type signRequest struct {
	Message    string `json:"message"`
	Passphrase string `json:"passphrase"`
}

type verifyRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

type tokenRequest struct {
	Claims     map[string]interface{} `json:"claims"`
	Passphrase string                 `json:"passphrase"`
}

type tokenVerifyRequest struct {
	Token string `json:"token"`
}

// decodeBody fills reqObj from the request body. A missing body is fine -
// every field of these requests is optional at the transport level.
func decodeBody(r *http.Request, reqObj interface{}) error {
	reqJson := json.NewDecoder(r.Body)
	reqJson.DisallowUnknownFields()
	if err := reqJson.Decode(reqObj); err != nil && !errors.Is(err, io.EOF) {
		logs.WithContext(r.Context()).Error(err.Error())
		return err
	}
	return nil
}

func KeyPairGenerateHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("KeyPairGenerateHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		signerName := vars["signername"]
		var req keyPairRequest
		if err := decodeBody(r, &req); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		keyInfo, err := s.GenerateKeyPair(r.Context(), projectId, signerName, req.Passphrase, s)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(keyInfo)
	}
}

func KeyPairRotateHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("KeyPairRotateHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		signerName := vars["signername"]
		var req keyPairRequest
		if err := decodeBody(r, &req); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		keyInfo, err := s.RotateKeyPair(r.Context(), projectId, signerName, req.Passphrase, s)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(keyInfo)
	}
}

func PublicKeyGetHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("PublicKeyGetHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		signerName := vars["signername"]
		keyInfo, err := s.GetPublicKey(r.Context(), projectId, signerName)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		if r.URL.Query().Get("format") == "pem" {
			publicKeyPem, pemErr := eruecdsa.PublicKeyToPem(r.Context(), keyInfo.PublicKey)
			if pemErr != nil {
				server_handlers.FormatResponse(w, 400)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": pemErr.Error()})
				return
			}
			server_handlers.FormatResponse(w, 200)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"key_id": keyInfo.KeyId, "public_key_pem": publicKeyPem})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(keyInfo)
	}
}

func MessageSignHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("MessageSignHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		signerName := vars["signername"]
		var req signRequest
		if err := decodeBody(r, &req); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		message, err := base64.StdEncoding.DecodeString(req.Message)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": fmt.Sprint("message is not valid base64 : ", err.Error())})
			return
		}
		signedMessage, err := s.SignMessage(r.Context(), projectId, signerName, message, req.Passphrase)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(signedMessage)
	}
}

func MessageVerifyHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("MessageVerifyHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		signerName := vars["signername"]
		var req verifyRequest
		if err := decodeBody(r, &req); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		message, err := base64.StdEncoding.DecodeString(req.Message)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": fmt.Sprint("message is not valid base64 : ", err.Error())})
			return
		}
		valid, err := s.VerifyMessage(r.Context(), projectId, signerName, message, req.Signature)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"valid": valid})
	}
}

func TokenIssueHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("TokenIssueHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		signerName := vars["signername"]
		var req tokenRequest
		if err := decodeBody(r, &req); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		token, err := s.IssueToken(r.Context(), projectId, signerName, req.Claims, req.Passphrase)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"token": token})
	}
}

func TokenVerifyHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("TokenVerifyHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		var req tokenVerifyRequest
		if err := decodeBody(r, &req); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		claims, err := s.VerifyToken(r.Context(), projectId, req.Token)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"claims": claims})
	}
}

func KeySetHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("KeySetHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		keySet, err := s.GetKeySet(r.Context(), projectId)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(keySet)
	}
}
