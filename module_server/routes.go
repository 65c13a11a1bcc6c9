package module_server

import (
	"net/http"

	"github.com/gorilla/mux"
	module_handlers "github.com/signet-tech/signet/module_server/handlers"
	"github.com/signet-tech/signet/module_store"
	server_handlers "github.com/signet-tech/signet/server/handlers"
)

func SetServiceName() {
	server_handlers.ServerName = "signet"
}

func AddModuleRoutes(serverRouter *mux.Router, sh *module_store.StoreHolder) {
	//store routes for project and signer config
	storeRouter := serverRouter.PathPrefix("/store").Subrouter()

	storeRouter.Methods(http.MethodPost).Path("/{project}/save").HandlerFunc(module_handlers.ProjectSaveHandler(sh.Store))
	storeRouter.Methods(http.MethodDelete).Path("/{project}/remove").HandlerFunc(module_handlers.ProjectRemoveHandler(sh.Store))
	storeRouter.Methods(http.MethodGet).Path("/project/list").HandlerFunc(module_handlers.ProjectListHandler(sh.Store))
	storeRouter.Methods(http.MethodGet).Path("/{project}/config").HandlerFunc(module_handlers.ProjectConfigHandler(sh.Store))
	storeRouter.Methods(http.MethodPost).Path("/{project}/save/signer/{signertype}").HandlerFunc(module_handlers.SignerSaveHandler(sh.Store))
	storeRouter.Methods(http.MethodDelete).Path("/{project}/remove/signer/{signername}").HandlerFunc(module_handlers.SignerRemoveHandler(sh.Store))
	storeRouter.Methods(http.MethodPost).Path("/{project}/save/sm/{smtype}").HandlerFunc(module_handlers.SmSaveHandler(sh.Store))
	storeRouter.Methods(http.MethodPost).Path("/{project}/save/kms/{kmstype}").HandlerFunc(module_handlers.KmsSaveHandler(sh.Store))

	// routes for signing operations
	// literal paths go first - mux matches in registration order, so the
	// {signername} routes would otherwise capture /token/verify
	signingRouter := serverRouter.PathPrefix("/signing/{project}").Subrouter()
	signingRouter.Methods(http.MethodPost).Path("/token/verify").HandlerFunc(module_handlers.TokenVerifyHandler(sh.Store))
	signingRouter.Methods(http.MethodGet).Path("/jwks").HandlerFunc(module_handlers.KeySetHandler(sh.Store))
	signingRouter.Methods(http.MethodPost).Path("/{signername}/keypair/generate").HandlerFunc(module_handlers.KeyPairGenerateHandler(sh.Store))
	signingRouter.Methods(http.MethodPost).Path("/{signername}/keypair/rotate").HandlerFunc(module_handlers.KeyPairRotateHandler(sh.Store))
	signingRouter.Methods(http.MethodGet).Path("/{signername}/publickey").HandlerFunc(module_handlers.PublicKeyGetHandler(sh.Store))
	signingRouter.Methods(http.MethodPost).Path("/{signername}/sign").HandlerFunc(module_handlers.MessageSignHandler(sh.Store))
	signingRouter.Methods(http.MethodPost).Path("/{signername}/verify").HandlerFunc(module_handlers.MessageVerifyHandler(sh.Store))
	signingRouter.Methods(http.MethodPost).Path("/{signername}/token").HandlerFunc(module_handlers.TokenIssueHandler(sh.Store))
}
