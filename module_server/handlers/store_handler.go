package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/signet-tech/signet/kms"
	logs "github.com/signet-tech/signet/logs"
	"github.com/signet-tech/signet/module_store"
	server_handlers "github.com/signet-tech/signet/server/handlers"
	"github.com/signet-tech/signet/signing"
	"github.com/signet-tech/signet/sm"
)

func ProjectSaveHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("ProjectSaveHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		err := s.SaveProject(r.Context(), projectId, s, true)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"msg": fmt.Sprint("project ", projectId, " created successfully")})
	}
}

func ProjectRemoveHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("ProjectRemoveHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		err := s.RemoveProject(r.Context(), projectId, s)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"msg": fmt.Sprint("project ", projectId, " removed successfully")})
	}
}

func ProjectListHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("ProjectListHandler - Start")
		projectIds := s.GetProjectList(r.Context())
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"projects": projectIds})
	}
}

func ProjectConfigHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("ProjectConfigHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		project, err := s.GetProjectConfig(r.Context(), projectId)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"project": project})
	}
}

func SignerSaveHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("SignerSaveHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		signerType := vars["signertype"]

		signerJson := json.NewDecoder(r.Body)
		signerJson.DisallowUnknownFields()

		signerObj := signing.GetSigner(signerType)
		if signerObj == nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": fmt.Sprint("invalid signer type ", signerType)})
			return
		}
		if err := signerJson.Decode(&signerObj); err == nil {
			err = s.SaveSigner(r.Context(), signerObj, projectId, s, true)
			if err != nil {
				server_handlers.FormatResponse(w, 400)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
				return
			}
		} else {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"msg": fmt.Sprint("signer for project ", projectId, " saved successfully")})
	}
}

func SignerRemoveHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("SignerRemoveHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		signerName := vars["signername"]
		err := s.RemoveSigner(r.Context(), signerName, projectId, s)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"msg": fmt.Sprint("signer ", signerName, " removed successfully")})
	}
}

func SmSaveHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("SmSaveHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		smType := vars["smtype"]

		smJson := json.NewDecoder(r.Body)
		smJson.DisallowUnknownFields()

		var smObj = sm.GetSm(smType)
		if smObj == nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": fmt.Sprint("invalid sm store type ", smType)})
			return
		}
		if err := smJson.Decode(&smObj); err == nil {
			err = s.SaveSm(r.Context(), projectId, smObj, s, true)
			if err != nil {
				server_handlers.FormatResponse(w, 400)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
				return
			}
		} else {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"msg": fmt.Sprint("Secret Manager for project ", projectId, " saved successfully.")})
	}
}

func KmsSaveHandler(s module_store.ModuleStoreI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs.WithContext(r.Context()).Debug("KmsSaveHandler - Start")
		vars := mux.Vars(r)
		projectId := vars["project"]
		kmsType := vars["kmstype"]

		kmsJson := json.NewDecoder(r.Body)
		kmsJson.DisallowUnknownFields()

		var kmsObj = kms.GetKms(kmsType)
		if kmsObj == nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": fmt.Sprint("invalid kms store type ", kmsType)})
			return
		}
		if err := kmsJson.Decode(&kmsObj); err == nil {
			err = s.SaveKms(r.Context(), projectId, kmsObj, s, true)
			if err != nil {
				server_handlers.FormatResponse(w, 400)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
				return
			}
		} else {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"msg": fmt.Sprint("KMS for project ", projectId, " saved successfully.")})
	}
}
