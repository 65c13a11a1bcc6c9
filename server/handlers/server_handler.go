package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	logs "github.com/signet-tech/signet/logs"
)

var ServerName = "unkown"
var AllowedOrigins = ""
var RequestIdKey = "request_id"

func HelloHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/hello" {
		http.Error(w, "404 not found.", http.StatusNotFound)
		return
	}
	fmt.Fprintf(w, fmt.Sprint("Hello ", ServerName))
}

func EchoHandler(w http.ResponseWriter, r *http.Request) {
	res := make(map[string]interface{})
	res["Host"] = r.Host
	res["Header"] = r.Header
	res["URL"] = r.URL
	tmplBodyFromReq := json.NewDecoder(r.Body)
	var tmplBody interface{}
	if err := tmplBodyFromReq.Decode(&tmplBody); err != nil {
		logs.WithContext(r.Context()).Error(err.Error())
	}
	res["Body"] = tmplBody
	res["Method"] = r.Method
	res["RequestURI"] = r.RequestURI
	res["RemoteAddr"] = r.RemoteAddr
	FormatResponse(w, 200)
	_ = json.NewEncoder(w).Encode(res)
}
