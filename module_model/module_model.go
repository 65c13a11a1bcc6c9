package module_model

import (
	"context"
	"fmt"

	"github.com/signet-tech/signet/kms"
	logs "github.com/signet-tech/signet/logs"
	"github.com/signet-tech/signet/signing"
	"github.com/signet-tech/signet/sm"
)

type Project struct {
	ProjectId string                     `json:"project_id" signet:"required"`
	Signers   map[string]signing.SignerI `json:"signers"`
	Sm        sm.SmStoreI                `json:"sm"`
	Kms       kms.KmsStoreI              `json:"kms"`
}

func (prj *Project) AddSigner(ctx context.Context, signerObjI signing.SignerI) error {
	logs.WithContext(ctx).Debug("AddSigner - Start")
	signerName, err := signerObjI.GetAttribute(ctx, "signer_name")
	if err != nil {
		return err
	}
	sKey := fmt.Sprint(signerName.(string))
	if prj.Signers == nil {
		prj.Signers = make(map[string]signing.SignerI)
	}
	prj.Signers[sKey] = signerObjI
	return nil
}
