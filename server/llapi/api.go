// Package llapi provides HTTP API endpoints for the grammar registry
// server.
//
// Grounded on server/api/api.go: the API struct (Backend/UnauthDelay/Secret),
// EndpointFunc/httpEndpoint wrapper, parseJSON, and requireIDParam/
// getURLParam all carry over directly, repointed at llsvc/llresult/llserr
// instead of tunas/result/serr.
package llapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dekarrin/ll1gen/server/llresult"
	"github.com/dekarrin/ll1gen/server/llserr"
	"github.com/dekarrin/ll1gen/server/llsvc"
)

// PathPrefix is the prefix of every path in the API. Routers should mount a
// sub-router that routes all requests to the API at this path.
const PathPrefix = "/api/v1"

// API holds parameters for endpoints needed to run and a service layer that
// performs most of the actual logic.
type API struct {
	// Backend is the service the API calls to perform the requested
	// actions.
	Backend llsvc.Service

	// UnauthDelay is how long a request pauses before responding with a
	// 401, 403, or 500, to deprioritize such requests from processing.
	UnauthDelay time.Duration

	// Secret signs JWT tokens.
	Secret []byte
}

func requireIDParam(r *http.Request) uuid.UUID {
	id, err := getURLParam(r, "id", uuid.Parse)
	if err != nil {
		panic(err.Error())
	}
	return id
}

func getURLParam[E any](r *http.Request, key string, parse func(string) (E, error)) (val E, err error) {
	valStr := chi.URLParam(r, key)
	if valStr == "" {
		return val, fmt.Errorf("parameter does not exist")
	}

	val, err = parse(valStr)
	if err != nil {
		return val, llserr.New("", llserr.ErrBadArgument)
	}
	return val, nil
}

// EndpointFunc is one API operation, decoupled from the HTTP plumbing
// around it.
type EndpointFunc func(req *http.Request) llresult.Result

func httpEndpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w)
		r := ep(req)

		if r.IsErr {
			logHTTPResponse("ERROR", req, r.Status, r.InternalMsg)
		} else {
			logHTTPResponse("INFO", req, r.Status, r.InternalMsg)
		}

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		llresult.InternalServerError(fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()))).WriteResponse(w)
		return true
	}
	return false
}

func logHTTPResponse(level string, req *http.Request, respStatus int, msg string) {
	if len(level) > 5 {
		level = level[0:5]
	}
	for len(level) < 5 {
		level += " "
	}

	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, respStatus, msg)
}

// parseJSON decodes req's JSON body into v, which must be a pointer. Errors
// wrap llserr.ErrBodyUnmarshal when the problem is the JSON itself.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return llserr.New("malformed JSON in request", err, llserr.ErrBodyUnmarshal)
	}
	return nil
}
