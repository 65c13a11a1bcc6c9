package main

import (
	"context"
	"fmt"
	"log"
	"os"

	logs "github.com/signet-tech/signet/logs"
	"github.com/signet-tech/signet/module_server"
	"github.com/signet-tech/signet/module_store"
	"github.com/signet-tech/signet/server"
	server_handlers "github.com/signet-tech/signet/server/handlers"
	"github.com/signet-tech/signet/tracing"
)

var port = "8088"

func main() {
	module_server.SetServiceName()
	logs.LogInit(server_handlers.ServerName)
	logs.Logger.Info(fmt.Sprint("inside main of ", server_handlers.ServerName))

	tp, err := tracing.TracerInit(context.Background(), server_handlers.ServerName)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err = tp.Shutdown(context.Background()); err != nil {
			logs.Logger.Error(fmt.Sprint("Error shutting down tracer provider: ", err.Error()))
		}
	}()

	envPort := os.Getenv("SIGNETPORT")
	if envPort != "" {
		port = envPort
	}
	store, e := module_server.StartUp()
	if e != nil {
		logs.Logger.Error(e.Error())
		logs.Logger.Error("Failed to Start Server - error while setting up config store")
		return
	}
	sh := new(module_store.StoreHolder)
	sh.Store = store
	sr, _, e := server.Init(store)
	module_server.AddModuleRoutes(sr, sh)
	if e != nil {
		logs.Logger.Error(e.Error())
	}
	server.Launch(sr, port)
}
