package server

import (
	"net/http"

	"github.com/gorilla/mux"
	handlers "github.com/signet-tech/signet/server/handlers"
)

func (s *Server) GetRouter() *mux.Router {
	router := mux.NewRouter()
	router.Methods(http.MethodGet).Path("/hello").HandlerFunc(handlers.HelloHandler)
	router.Methods(http.MethodPost).Path("/echo").HandlerFunc(handlers.EchoHandler)
	return router
}
