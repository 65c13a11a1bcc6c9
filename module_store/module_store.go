package module_store

import (
	"context"
	"errors"
	"fmt"

	"github.com/signet-tech/signet/kms"
	logs "github.com/signet-tech/signet/logs"
	"github.com/signet-tech/signet/module_model"
	"github.com/signet-tech/signet/signing"
	"github.com/signet-tech/signet/sm"
	"github.com/signet-tech/signet/store"
)

type StoreHolder struct {
	Store ModuleStoreI
}

type ModuleStoreI interface {
	store.StoreI
	SaveProject(ctx context.Context, projectId string, realStore ModuleStoreI, persist bool) error
	RemoveProject(ctx context.Context, projectId string, realStore ModuleStoreI) error
	GetProjectConfig(ctx context.Context, projectId string) (*module_model.Project, error)
	GetProjectList(ctx context.Context) []map[string]interface{}
	SaveSigner(ctx context.Context, signerObj signing.SignerI, projectId string, realStore ModuleStoreI, persist bool) error
	RemoveSigner(ctx context.Context, signerName string, projectId string, realStore ModuleStoreI) error
	GetSigner(ctx context.Context, signerName string, projectId string) (signing.SignerI, error)
	SaveSm(ctx context.Context, projectId string, smObj sm.SmStoreI, realStore ModuleStoreI, persist bool) error
	SaveKms(ctx context.Context, projectId string, kmsObj kms.KmsStoreI, realStore ModuleStoreI, persist bool) error
	GenerateKeyPair(ctx context.Context, projectId string, signerName string, passphrase string, realStore ModuleStoreI) (signing.PublicKeyInfo, error)
	RotateKeyPair(ctx context.Context, projectId string, signerName string, passphrase string, realStore ModuleStoreI) (signing.PublicKeyInfo, error)
	GetPublicKey(ctx context.Context, projectId string, signerName string) (signing.PublicKeyInfo, error)
	SignMessage(ctx context.Context, projectId string, signerName string, message []byte, passphrase string) (signing.SignedMessage, error)
	VerifyMessage(ctx context.Context, projectId string, signerName string, message []byte, signature string) (bool, error)
	IssueToken(ctx context.Context, projectId string, signerName string, claims map[string]interface{}, passphrase string) (string, error)
	VerifyToken(ctx context.Context, projectId string, strToken string) (map[string]interface{}, error)
	GetKeySet(ctx context.Context, projectId string) (interface{}, error)
}

type ModuleStore struct {
	Projects map[string]*module_model.Project `json:"projects"` //ProjectId is the key
}

type ModuleFileStore struct {
	store.FileStore
	ModuleStore
}

type ModuleDbStore struct {
	store.DbStore
	ModuleStore
}

func (ms *ModuleStore) SaveProject(ctx context.Context, projectId string, realStore ModuleStoreI, persist bool) error {
	logs.WithContext(ctx).Debug("SaveProject - Start")
	if _, ok := ms.Projects[projectId]; !ok {
		project := new(module_model.Project)
		project.ProjectId = projectId
		if ms.Projects == nil {
			ms.Projects = make(map[string]*module_model.Project)
		}
		ms.Projects[projectId] = project
		if persist == true {
			logs.WithContext(ctx).Info("SaveStore called from SaveProject")
			return realStore.SaveStore(ctx, "", realStore)
		} else {
			return nil
		}
	} else {
		err := errors.New(fmt.Sprint("Project ", projectId, " already exists"))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
}

func (ms *ModuleStore) RemoveProject(ctx context.Context, projectId string, realStore ModuleStoreI) error {
	logs.WithContext(ctx).Debug("RemoveProject - Start")
	if _, ok := ms.Projects[projectId]; ok {
		delete(ms.Projects, projectId)
		logs.WithContext(ctx).Info("SaveStore called from RemoveProject")
		return realStore.SaveStore(ctx, "", realStore)
	} else {
		err := errors.New(fmt.Sprint("Project ", projectId, " does not exists"))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
}

func (ms *ModuleStore) GetProjectConfig(ctx context.Context, projectId string) (*module_model.Project, error) {
	logs.WithContext(ctx).Debug("GetProjectConfig - Start")
	if _, ok := ms.Projects[projectId]; ok {
		return ms.Projects[projectId], nil
	} else {
		err := errors.New(fmt.Sprint("Project ", projectId, " does not exists"))
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
}

func (ms *ModuleStore) GetProjectList(ctx context.Context) []map[string]interface{} {
	logs.WithContext(ctx).Debug("GetProjectList - Start")
	projects := make([]map[string]interface{}, len(ms.Projects))
	i := 0
	for k := range ms.Projects {
		project := make(map[string]interface{})
		project["projectName"] = k
		projects[i] = project
		i++
	}
	return projects
}

func (ms *ModuleStore) SaveSigner(ctx context.Context, signerObj signing.SignerI, projectId string, realStore ModuleStoreI, persist bool) error {
	logs.WithContext(ctx).Debug("SaveSigner - Start")
	prj, err := ms.GetProjectConfig(ctx, projectId)
	if err != nil {
		return err
	}
	err = prj.AddSigner(ctx, signerObj)
	if err != nil {
		return err
	}
	if persist == true {
		return realStore.SaveStore(ctx, "", realStore)
	}
	return nil
}

func (ms *ModuleStore) RemoveSigner(ctx context.Context, signerName string, projectId string, realStore ModuleStoreI) error {
	logs.WithContext(ctx).Debug("RemoveSigner - Start")
	if prj, ok := ms.Projects[projectId]; ok {
		if _, ok := prj.Signers[signerName]; ok {
			delete(prj.Signers, signerName)
			logs.WithContext(ctx).Info("SaveStore called from RemoveSigner")
			return realStore.SaveStore(ctx, "", realStore)
		} else {
			err := errors.New(fmt.Sprint("Signer ", signerName, " does not exists"))
			logs.WithContext(ctx).Error(err.Error())
			return err
		}
	} else {
		err := errors.New(fmt.Sprint("Project ", projectId, " does not exists"))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
}

// GetSigner returns the named signer with the project's secret manager or
// kms attached, so key material lookups work on a freshly unmarshalled store.
func (ms *ModuleStore) GetSigner(ctx context.Context, signerName string, projectId string) (signing.SignerI, error) {
	logs.WithContext(ctx).Debug("GetSigner - Start")
	prj, err := ms.GetProjectConfig(ctx, projectId)
	if err != nil {
		return nil, err
	}
	signerObj, ok := prj.Signers[signerName]
	if !ok {
		err = errors.New(fmt.Sprint("Signer ", signerName, " does not exists"))
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	signerType, err := signerObj.GetAttribute(ctx, "signer_type")
	if err != nil {
		return nil, err
	}
	switch signerType.(string) {
	case signing.LOCAL_SIGNER:
		if prj.Sm != nil {
			_ = signerObj.SetSm(ctx, prj.Sm)
		}
	case signing.AWS_KMS_SIGNER:
		if prj.Kms == nil {
			err = errors.New(fmt.Sprint("no kms configured for project ", projectId))
			logs.WithContext(ctx).Error(err.Error())
			return nil, err
		}
		_ = signerObj.SetKms(ctx, prj.Kms)
	}
	return signerObj, nil
}

func (ms *ModuleStore) SaveSm(ctx context.Context, projectId string, smObj sm.SmStoreI, realStore ModuleStoreI, persist bool) error {
	logs.WithContext(ctx).Debug("SaveSm - Start")
	prj, err := ms.GetProjectConfig(ctx, projectId)
	if err != nil {
		return err
	}
	prj.Sm = smObj
	if persist == true {
		return realStore.SaveStore(ctx, "", realStore)
	}
	return nil
}

func (ms *ModuleStore) SaveKms(ctx context.Context, projectId string, kmsObj kms.KmsStoreI, realStore ModuleStoreI, persist bool) error {
	logs.WithContext(ctx).Debug("SaveKms - Start")
	prj, err := ms.GetProjectConfig(ctx, projectId)
	if err != nil {
		return err
	}
	prj.Kms = kmsObj
	if persist == true {
		return realStore.SaveStore(ctx, "", realStore)
	}
	return nil
}

func (ms *ModuleStore) GenerateKeyPair(ctx context.Context, projectId string, signerName string, passphrase string, realStore ModuleStoreI) (keyInfo signing.PublicKeyInfo, err error) {
	logs.WithContext(ctx).Debug("GenerateKeyPair - Start")
	signerObj, err := ms.GetSigner(ctx, signerName, projectId)
	if err != nil {
		return
	}
	keyInfo, err = signerObj.GenerateKeyPair(ctx, passphrase)
	if err != nil {
		return
	}
	logs.WithContext(ctx).Info("SaveStore called from GenerateKeyPair")
	err = realStore.SaveStore(ctx, "", realStore)
	return
}

func (ms *ModuleStore) RotateKeyPair(ctx context.Context, projectId string, signerName string, passphrase string, realStore ModuleStoreI) (keyInfo signing.PublicKeyInfo, err error) {
	logs.WithContext(ctx).Debug("RotateKeyPair - Start")
	signerObj, err := ms.GetSigner(ctx, signerName, projectId)
	if err != nil {
		return
	}
	keyInfo, err = signerObj.RotateKeyPair(ctx, passphrase)
	if err != nil {
		return
	}
	logs.WithContext(ctx).Info("SaveStore called from RotateKeyPair")
	err = realStore.SaveStore(ctx, "", realStore)
	return
}

func (ms *ModuleStore) GetPublicKey(ctx context.Context, projectId string, signerName string) (keyInfo signing.PublicKeyInfo, err error) {
	logs.WithContext(ctx).Debug("GetPublicKey - Start")
	signerObj, err := ms.GetSigner(ctx, signerName, projectId)
	if err != nil {
		return
	}
	return signerObj.GetPublicKey(ctx)
}

func (ms *ModuleStore) SignMessage(ctx context.Context, projectId string, signerName string, message []byte, passphrase string) (signedMessage signing.SignedMessage, err error) {
	logs.WithContext(ctx).Debug("SignMessage - Start")
	signerObj, err := ms.GetSigner(ctx, signerName, projectId)
	if err != nil {
		return
	}
	return signerObj.Sign(ctx, message, passphrase)
}

func (ms *ModuleStore) VerifyMessage(ctx context.Context, projectId string, signerName string, message []byte, signature string) (valid bool, err error) {
	logs.WithContext(ctx).Debug("VerifyMessage - Start")
	signerObj, err := ms.GetSigner(ctx, signerName, projectId)
	if err != nil {
		return
	}
	return signerObj.Verify(ctx, message, signature)
}

func (ms *ModuleStore) IssueToken(ctx context.Context, projectId string, signerName string, claims map[string]interface{}, passphrase string) (token string, err error) {
	logs.WithContext(ctx).Debug("IssueToken - Start")
	signerObj, err := ms.GetSigner(ctx, signerName, projectId)
	if err != nil {
		return
	}
	return signerObj.IssueToken(ctx, claims, passphrase)
}

func (ms *ModuleStore) VerifyToken(ctx context.Context, projectId string, strToken string) (claims map[string]interface{}, err error) {
	logs.WithContext(ctx).Debug("VerifyToken - Start")
	keyInfos, err := ms.projectKeyInfos(ctx, projectId)
	if err != nil {
		return
	}
	return signing.VerifyToken(ctx, strToken, keyInfos)
}

func (ms *ModuleStore) GetKeySet(ctx context.Context, projectId string) (keySet interface{}, err error) {
	logs.WithContext(ctx).Debug("GetKeySet - Start")
	keyInfos, err := ms.projectKeyInfos(ctx, projectId)
	if err != nil {
		return
	}
	return signing.MakeKeySet(ctx, keyInfos)
}

// projectKeyInfos collects the public halves of every signer that has a
// key pair. Signers without one are skipped, not an error.
func (ms *ModuleStore) projectKeyInfos(ctx context.Context, projectId string) (keyInfos []signing.PublicKeyInfo, err error) {
	prj, err := ms.GetProjectConfig(ctx, projectId)
	if err != nil {
		return
	}
	for _, signerObj := range prj.Signers {
		keyInfo, keyErr := signerObj.GetPublicKey(ctx)
		if keyErr != nil {
			continue
		}
		keyInfos = append(keyInfos, keyInfo)
	}
	return
}
