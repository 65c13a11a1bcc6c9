package module_store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/signet-tech/signet/kms"
	logs "github.com/signet-tech/signet/logs"
	"github.com/signet-tech/signet/signing"
	"github.com/signet-tech/signet/sm"
)

// UnMarshalStore rebuilds interface-typed config (signers, sm, kms) from
// the raw persisted JSON using the type discriminator of each object.
func UnMarshalStore(ctx context.Context, b []byte, msi ModuleStoreI) error {
	logs.WithContext(ctx).Debug("UnMarshalStore - Start")
	var storeMap map[string]*json.RawMessage
	err := json.Unmarshal(b, &storeMap)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}

	var prjs map[string]*json.RawMessage
	if _, ok := storeMap["projects"]; ok {
		err = json.Unmarshal(*storeMap["projects"], &prjs)
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return err
		}

		for prj, prjJson := range prjs {
			_ = msi.SaveProject(ctx, prj, nil, false)

			var prjObjs map[string]*json.RawMessage
			err = json.Unmarshal(*prjJson, &prjObjs)
			if err != nil {
				logs.WithContext(ctx).Error(err.Error())
				return err
			}
			p, e := msi.GetProjectConfig(ctx, prj)
			if e != nil {
				return e
			}

			if smJson, ok := prjObjs["sm"]; ok && smJson != nil && string(*smJson) != "null" {
				var smObj map[string]*json.RawMessage
				err = json.Unmarshal(*smJson, &smObj)
				if err != nil {
					logs.WithContext(ctx).Error(err.Error())
					return err
				}
				smTypeJson, typeOk := smObj["sm_store_type"]
				if !typeOk || smTypeJson == nil {
					err = errors.New(fmt.Sprint("sm of project ", prj, " has no sm_store_type"))
					logs.WithContext(ctx).Error(err.Error())
					return err
				}
				var smStoreType string
				err = json.Unmarshal(*smTypeJson, &smStoreType)
				if err != nil {
					logs.WithContext(ctx).Error(err.Error())
					return err
				}
				smI := sm.GetSm(smStoreType)
				if smI == nil {
					err = errors.New(fmt.Sprint("invalid sm store type ", smStoreType))
					logs.WithContext(ctx).Error(err.Error())
					return err
				}
				err = smI.MakeFromJson(ctx, smJson)
				if err != nil {
					return err
				}
				p.Sm = smI
			}

			if kmsJson, ok := prjObjs["kms"]; ok && kmsJson != nil && string(*kmsJson) != "null" {
				var kmsObj map[string]*json.RawMessage
				err = json.Unmarshal(*kmsJson, &kmsObj)
				if err != nil {
					logs.WithContext(ctx).Error(err.Error())
					return err
				}
				kmsTypeJson, typeOk := kmsObj["kms_store_type"]
				if !typeOk || kmsTypeJson == nil {
					err = errors.New(fmt.Sprint("kms of project ", prj, " has no kms_store_type"))
					logs.WithContext(ctx).Error(err.Error())
					return err
				}
				var kmsStoreType string
				err = json.Unmarshal(*kmsTypeJson, &kmsStoreType)
				if err != nil {
					logs.WithContext(ctx).Error(err.Error())
					return err
				}
				kmsI := kms.GetKms(kmsStoreType)
				if kmsI == nil {
					err = errors.New(fmt.Sprint("invalid kms store type ", kmsStoreType))
					logs.WithContext(ctx).Error(err.Error())
					return err
				}
				err = kmsI.MakeFromJson(ctx, kmsJson)
				if err != nil {
					return err
				}
				p.Kms = kmsI
			}

			if signersJson, ok := prjObjs["signers"]; ok && signersJson != nil && string(*signersJson) != "null" {
				var signers map[string]*json.RawMessage
				err = json.Unmarshal(*signersJson, &signers)
				if err != nil {
					logs.WithContext(ctx).Error(err.Error())
					return err
				}
				for signerKey, signerJson := range signers {
					logs.WithContext(ctx).Info(fmt.Sprint("signerKey === ", signerKey))
					var signerObj map[string]*json.RawMessage
					err = json.Unmarshal(*signerJson, &signerObj)
					if err != nil {
						logs.WithContext(ctx).Error(err.Error())
						return err
					}
					signerTypeJson, typeOk := signerObj["signer_type"]
					if !typeOk || signerTypeJson == nil {
						err = errors.New(fmt.Sprint("signer ", signerKey, " of project ", prj, " has no signer_type"))
						logs.WithContext(ctx).Error(err.Error())
						return err
					}
					var signerType string
					err = json.Unmarshal(*signerTypeJson, &signerType)
					if err != nil {
						logs.WithContext(ctx).Error(err.Error())
						return err
					}
					signerI := signing.GetSigner(signerType)
					if signerI == nil {
						err = errors.New(fmt.Sprint("invalid signer type ", signerType))
						logs.WithContext(ctx).Error(err.Error())
						return err
					}
					err = signerI.MakeFromJson(ctx, signerJson)
					if err == nil {
						err = msi.SaveSigner(ctx, signerI, prj, nil, false)
						if err != nil {
							return err
						}
					} else {
						return err
					}
				}
			}
		}
	}
	return nil
}
