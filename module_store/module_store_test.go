package module_store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/signet-tech/signet/signing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ModuleFileStore {
	t.Helper()
	t.Setenv("STORE_FILE_PATH", filepath.Join(t.TempDir(), "signet_config.json"))
	return new(ModuleFileStore)
}

func newTestSigner(signerName string) signing.SignerI {
	ls := new(signing.LocalSigner)
	ls.SignerType = signing.LOCAL_SIGNER
	ls.SignerName = signerName
	return ls
}

func TestSaveAndRemoveProject(t *testing.T) {
	ctx := context.Background()
	myStore := newTestStore(t)

	require.NoError(t, myStore.SaveProject(ctx, "project1", myStore, true))
	err := myStore.SaveProject(ctx, "project1", myStore, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	projectList := myStore.GetProjectList(ctx)
	require.Len(t, projectList, 1)
	assert.Equal(t, "project1", projectList[0]["projectName"])

	require.NoError(t, myStore.RemoveProject(ctx, "project1", myStore))
	err = myStore.RemoveProject(ctx, "project1", myStore)
	assert.Error(t, err)
}

func TestSaveSignerAndGenerateKeyPair(t *testing.T) {
	ctx := context.Background()
	myStore := newTestStore(t)

	require.NoError(t, myStore.SaveProject(ctx, "project1", myStore, true))
	require.NoError(t, myStore.SaveSigner(ctx, newTestSigner("signer1"), "project1", myStore, true))

	keyInfo, err := myStore.GenerateKeyPair(ctx, "project1", "signer1", "", myStore)
	require.NoError(t, err)
	assert.NotEmpty(t, keyInfo.KeyId)

	// create-if-missing, same signer keeps its key pair
	keyInfoAgain, err := myStore.GenerateKeyPair(ctx, "project1", "signer1", "", myStore)
	require.NoError(t, err)
	assert.Equal(t, keyInfo.KeyId, keyInfoAgain.KeyId)

	publicKeyInfo, err := myStore.GetPublicKey(ctx, "project1", "signer1")
	require.NoError(t, err)
	assert.Equal(t, keyInfo.PublicKey, publicKeyInfo.PublicKey)
}

func TestGenerateKeyPairUnknownSigner(t *testing.T) {
	ctx := context.Background()
	myStore := newTestStore(t)
	require.NoError(t, myStore.SaveProject(ctx, "project1", myStore, true))

	_, err := myStore.GenerateKeyPair(ctx, "project1", "ghost", "", myStore)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exists")
}

func TestSignAndVerifyMessage(t *testing.T) {
	ctx := context.Background()
	myStore := newTestStore(t)
	require.NoError(t, myStore.SaveProject(ctx, "project1", myStore, true))
	require.NoError(t, myStore.SaveSigner(ctx, newTestSigner("signer1"), "project1", myStore, true))
	_, err := myStore.GenerateKeyPair(ctx, "project1", "signer1", "", myStore)
	require.NoError(t, err)

	message := []byte("payload to sign")
	signedMessage, err := myStore.SignMessage(ctx, "project1", "signer1", message, "")
	require.NoError(t, err)

	valid, err := myStore.VerifyMessage(ctx, "project1", "signer1", message, signedMessage.Signature)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	myStore := newTestStore(t)
	require.NoError(t, myStore.SaveProject(ctx, "project1", myStore, true))
	require.NoError(t, myStore.SaveSigner(ctx, newTestSigner("signer1"), "project1", myStore, true))
	keyInfo, err := myStore.GenerateKeyPair(ctx, "project1", "signer1", "", myStore)
	require.NoError(t, err)
	message := []byte("payload to sign")
	signedMessage, err := myStore.SignMessage(ctx, "project1", "signer1", message, "")
	require.NoError(t, err)

	// a fresh store loaded from the same file sees the same key pair
	reloaded := new(ModuleFileStore)
	storeBytes, err := reloaded.GetStoreByteArray(ctx, "")
	require.NoError(t, err)
	require.NoError(t, UnMarshalStore(ctx, storeBytes, reloaded))

	reloadedKeyInfo, err := reloaded.GetPublicKey(ctx, "project1", "signer1")
	require.NoError(t, err)
	assert.Equal(t, keyInfo.KeyId, reloadedKeyInfo.KeyId)
	assert.Equal(t, keyInfo.PublicKey, reloadedKeyInfo.PublicKey)

	valid, err := reloaded.VerifyMessage(ctx, "project1", "signer1", message, signedMessage.Signature)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestRotateKeyPairDiscardsOldKey(t *testing.T) {
	ctx := context.Background()
	myStore := newTestStore(t)
	require.NoError(t, myStore.SaveProject(ctx, "project1", myStore, true))
	require.NoError(t, myStore.SaveSigner(ctx, newTestSigner("signer1"), "project1", myStore, true))
	keyInfo, err := myStore.GenerateKeyPair(ctx, "project1", "signer1", "", myStore)
	require.NoError(t, err)

	message := []byte("payload to sign")
	signedMessage, err := myStore.SignMessage(ctx, "project1", "signer1", message, "")
	require.NoError(t, err)

	rotatedKeyInfo, err := myStore.RotateKeyPair(ctx, "project1", "signer1", "", myStore)
	require.NoError(t, err)
	assert.NotEqual(t, keyInfo.KeyId, rotatedKeyInfo.KeyId)

	// signatures from the discarded key no longer verify
	valid, err := myStore.VerifyMessage(ctx, "project1", "signer1", message, signedMessage.Signature)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestIssueAndVerifyTokenAcrossStore(t *testing.T) {
	ctx := context.Background()
	myStore := newTestStore(t)
	require.NoError(t, myStore.SaveProject(ctx, "project1", myStore, true))
	require.NoError(t, myStore.SaveSigner(ctx, newTestSigner("signer1"), "project1", myStore, true))
	_, err := myStore.GenerateKeyPair(ctx, "project1", "signer1", "", myStore)
	require.NoError(t, err)

	token, err := myStore.IssueToken(ctx, "project1", "signer1", map[string]interface{}{"sub": "user-1"}, "")
	require.NoError(t, err)

	claims, err := myStore.VerifyToken(ctx, "project1", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["sub"])
}

func TestUnMarshalStoreMissingTypeDiscriminators(t *testing.T) {
	ctx := context.Background()

	// hand-edited config files may lose the type keys; load must fail
	// cleanly instead of panicking
	noSignerType := []byte(`{"projects":{"project1":{"project_id":"project1","signers":{"signer1":{"signer_name":"signer1"}}}}}`)
	err := UnMarshalStore(ctx, noSignerType, newTestStore(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signer_type")

	noSmType := []byte(`{"projects":{"project1":{"project_id":"project1","sm":{"region":"us-east-1"}}}}`)
	err = UnMarshalStore(ctx, noSmType, newTestStore(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sm_store_type")

	noKmsType := []byte(`{"projects":{"project1":{"project_id":"project1","kms":{"region":"us-east-1"}}}}`)
	err = UnMarshalStore(ctx, noKmsType, newTestStore(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kms_store_type")
}

func TestGetKeySetSkipsSignersWithoutKeys(t *testing.T) {
	ctx := context.Background()
	myStore := newTestStore(t)
	require.NoError(t, myStore.SaveProject(ctx, "project1", myStore, true))
	require.NoError(t, myStore.SaveSigner(ctx, newTestSigner("signer1"), "project1", myStore, true))
	require.NoError(t, myStore.SaveSigner(ctx, newTestSigner("signer2"), "project1", myStore, true))
	_, err := myStore.GenerateKeyPair(ctx, "project1", "signer1", "", myStore)
	require.NoError(t, err)

	keyInfos, err := myStore.projectKeyInfos(ctx, "project1")
	require.NoError(t, err)
	assert.Len(t, keyInfos, 1)
}
