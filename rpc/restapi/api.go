package restapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nishp77/thenewboston-node/docs"
	"github.com/nishp77/thenewboston-node/internal/ledgerapi"
	"github.com/nishp77/thenewboston-node/ledger"
	"github.com/nishp77/thenewboston-node/params"
	"github.com/nishp77/thenewboston-node/tools/crypto"
)

func writeResponse(w http.ResponseWriter, resp interface{}, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(errStatusCode(err))
		jsonData, _ := json.Marshal(map[string]string{"error": err.Error()})
		_, _ = w.Write(jsonData)
		return
	}
	jsonData, _ := json.Marshal(resp)
	_, _ = w.Write(jsonData)
}

func errStatusCode(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case ledger.IsValidationRejection(err),
		errors.Is(err, crypto.ErrInvalidAccountNumber):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrChainCorrupted),
		errors.Is(err, ledger.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ServerInfoHandler handler
func ServerInfoHandler(w http.ResponseWriter, r *http.Request) {
	res, err := ledgerapi.GetServerInfo()
	writeResponse(w, res, err)
}

// VersionInfoHandler handler
func VersionInfoHandler(w http.ResponseWriter, r *http.Request) {
	version := params.VersionWithMeta
	writeResponse(w, &version, nil)
}

// StateMetaHandler handler
func StateMetaHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := ledgerapi.GetStateMeta(vars["block_number"])
	writeResponse(w, res, err)
}

// SubmitChangeRequestHandler handler
func SubmitChangeRequestHandler(w http.ResponseWriter, r *http.Request) {
	var req ledger.SignedChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		jsonData, _ := json.Marshal(map[string]string{"error": "invalid request body: " + err.Error()})
		_, _ = w.Write(jsonData)
		return
	}
	res, err := ledgerapi.SubmitChangeRequest(&req)
	writeResponse(w, res, err)
}

// GetBlockHandler handler
func GetBlockHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	number, err := strconv.ParseInt(vars["block_number"], 10, 64)
	if err != nil {
		writeResponse(w, nil, ledger.ErrNotFound)
		return
	}
	res, err := ledgerapi.GetBlock(number)
	writeResponse(w, res, err)
}

// HeadInfoHandler handler
func HeadInfoHandler(w http.ResponseWriter, r *http.Request) {
	res, err := ledgerapi.GetHeadInfo()
	writeResponse(w, res, err)
}

// AccountInfoHandler handler
func AccountInfoHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := ledgerapi.GetAccountInfo(vars["account_number"])
	writeResponse(w, res, err)
}

// DocsHandler handler
func DocsHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, docs.All(), nil)
}
