package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/nishp77/thenewboston-node/filestore"
	"github.com/nishp77/thenewboston-node/log"
	"github.com/nishp77/thenewboston-node/params"
	"github.com/nishp77/thenewboston-node/rpc/restapi"
	"github.com/nishp77/thenewboston-node/rpc/rpcapi"
)

// StartAPIServer start api server
func StartAPIServer() {
	router := initRouter()

	apiPort := params.GetAPIPort()
	apiServer := params.GetAPIServerConfig()
	allowedOrigins := apiServer.AllowedOrigins

	corsOptions := []handlers.CORSOption{
		handlers.AllowedMethods([]string{"GET", "POST"}),
	}
	if len(allowedOrigins) != 0 {
		corsOptions = append(corsOptions,
			handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"}),
			handlers.AllowedOrigins(allowedOrigins),
		)
	}

	maxRequestsLimit := apiServer.MaxRequestsLimit
	if maxRequestsLimit <= 0 {
		maxRequestsLimit = 10 // default
	}
	lmt := tollbooth.NewLimiter(float64(maxRequestsLimit), &limiter.ExpirableOptions{DefaultExpirationTTL: 600 * time.Second})
	handler := tollbooth.LimitHandler(lmt, handlers.CORS(corsOptions...)(router))

	log.Info("JSON RPC service listen and serving", "port", apiPort, "allowedOrigins", allowedOrigins, "maxRequestsLimit", maxRequestsLimit)
	svr := http.Server{
		Addr:         fmt.Sprintf(":%v", apiPort),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		Handler:      handler,
	}
	go func() {
		if err := svr.ListenAndServe(); err != nil {
			log.Error("ListenAndServe error", "err", err)
		}
	}()
}

func initRouter() *mux.Router {
	r := mux.NewRouter()

	rpcserver := rpc.NewServer()
	rpcserver.RegisterCodec(rpcjson.NewCodec(), "application/json")
	_ = rpcserver.RegisterService(new(rpcapi.RPCAPI), "tnb")

	r.Handle("/rpc", rpcserver)
	r.HandleFunc("/serverinfo", restapi.ServerInfoHandler).Methods("GET")
	r.HandleFunc("/versioninfo", restapi.VersionInfoHandler).Methods("GET")
	r.HandleFunc("/api/v1/blockchain-states-meta/{block_number}/", restapi.StateMetaHandler).Methods("GET")
	r.HandleFunc("/api/v1/signed-change-requests/", restapi.SubmitChangeRequestHandler).Methods("POST")
	r.HandleFunc("/api/v1/blocks/{block_number}/", restapi.GetBlockHandler).Methods("GET")
	r.HandleFunc("/api/v1/head/", restapi.HeadInfoHandler).Methods("GET")
	r.HandleFunc("/api/v1/accounts/{account_number}/", restapi.AccountInfoHandler).Methods("GET")
	r.HandleFunc("/api/v1/docs/", restapi.DocsHandler).Methods("GET")

	// the published snapshot urls resolve against this node itself
	fileServer := http.FileServer(http.Dir(params.GetBlockchainDir()))
	r.PathPrefix(filestore.URLPathPrefix).Handler(http.StripPrefix(filestore.URLPathPrefix, fileServer)).Methods("GET")

	methodsExcluesGet := []string{"POST", "HEAD", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}
	methodsExcluesPost := []string{"GET", "HEAD", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}

	r.HandleFunc("/serverinfo", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/versioninfo", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/api/v1/blockchain-states-meta/{block_number}/", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/api/v1/signed-change-requests/", warnHandler).Methods(methodsExcluesPost...)
	r.HandleFunc("/api/v1/blocks/{block_number}/", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/api/v1/head/", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/api/v1/accounts/{account_number}/", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/api/v1/docs/", warnHandler).Methods(methodsExcluesGet...)

	return r
}

func warnHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Forbid '%v' on '%v'\n", r.Method, r.RequestURI)
}
