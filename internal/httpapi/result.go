// Package httpapi exposes the synthesis pipeline over HTTP: submit a
// config, poll its run record, and list run history.
package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// result is a deferred HTTP response: handlers build one and return it
// rather than writing to the ResponseWriter directly, so the endpoint
// wrapper can log every response and set its headers uniformly.
type result struct {
	status      int
	resp        interface{}
	internalMsg string
	isErr       bool
}

type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func ok(respObj interface{}, internalMsg string) result {
	return result{status: http.StatusOK, resp: respObj, internalMsg: internalMsg}
}

func created(respObj interface{}, internalMsg string) result {
	return result{status: http.StatusCreated, resp: respObj, internalMsg: internalMsg}
}

func errResult(status int, userMsg, internalMsg string) result {
	return result{
		status:      status,
		resp:        errorBody{Error: userMsg, Status: status},
		internalMsg: internalMsg,
		isErr:       true,
	}
}

func badRequest(internalMsg string) result {
	return errResult(http.StatusBadRequest, "the request body could not be understood", internalMsg)
}

func unauthorized() result {
	return errResult(http.StatusUnauthorized, "a valid bearer token is required", "missing or invalid bearer token")
}

func notFound(internalMsg string) result {
	return errResult(http.StatusNotFound, "the requested run was not found", internalMsg)
}

func internalServerError(internalMsg string) result {
	return errResult(http.StatusInternalServerError, "an internal server error occurred", internalMsg)
}

func (r result) write(w http.ResponseWriter, req *http.Request) {
	level := "INFO "
	if r.isErr {
		level = "ERROR"
	}
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, r.status, r.internalMsg)

	if r.status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="polycert"`)
	}
	if r.resp == nil {
		w.WriteHeader(r.status)
		return
	}

	body, err := json.Marshal(r.resp)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, `{"error":"could not marshal response","status":500}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.status)
	w.Write(body)
}

// endpointFunc is the handler shape every route is built from.
type endpointFunc func(req *http.Request) result

func asHandler(ep endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		ep(req).write(w, req)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if rec := recover(); rec != nil {
		internalServerError(fmt.Sprintf("panic: %v", rec)).write(w, req)
	}
}
