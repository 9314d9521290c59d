// Package llresult is the HTTP endpoint return type for the grammar
// registry service: every EndpointFunc returns a Result, which knows how to
// write itself to an http.ResponseWriter as JSON (or, for a handful of
// cases, as a redirect or empty body). Grounded nearly verbatim on
// server/result/result.go, which is domain-agnostic enough to carry over
// directly; only the error-wrapping calls were repointed at llserr.
package llresult

import (
	"encoding/json"
	"net/http"
)

// Result is the outcome of one API endpoint call.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp          interface{}
	redir         string
	hdrs          [][2]string
	respJSONBytes []byte
}

// OK returns a 200 response with respObj marshaled as the body.
func OK(respObj interface{}) Result {
	return Result{Status: http.StatusOK, IsJSON: true, resp: respObj}
}

// Created returns a 201 response with respObj marshaled as the body.
func Created(respObj interface{}) Result {
	return Result{Status: http.StatusCreated, IsJSON: true, resp: respObj}
}

// NoContent returns a 204 response with no body.
func NoContent() Result {
	return Result{Status: http.StatusNoContent}
}

// Conflict returns a 409 error response.
func Conflict(internalMsg string, userMsg string) Result {
	return Result{Status: http.StatusConflict, IsErr: true, IsJSON: true, InternalMsg: internalMsg, resp: errBody{Message: userMsg}}
}

// BadRequest returns a 400 error response.
func BadRequest(internalMsg string, userMsg string) Result {
	return Result{Status: http.StatusBadRequest, IsErr: true, IsJSON: true, InternalMsg: internalMsg, resp: errBody{Message: userMsg}}
}

// MethodNotAllowed returns a 405 error response.
func MethodNotAllowed(internalMsg string, userMsg string) Result {
	return Result{Status: http.StatusMethodNotAllowed, IsErr: true, IsJSON: true, InternalMsg: internalMsg, resp: errBody{Message: userMsg}}
}

// NotFound returns a 404 error response.
func NotFound() Result {
	return Result{Status: http.StatusNotFound, IsErr: true, IsJSON: true, InternalMsg: "not found", resp: errBody{Message: "The requested resource was not found"}}
}

// Forbidden returns a 403 error response.
func Forbidden(internalMsg string) Result {
	return Result{Status: http.StatusForbidden, IsErr: true, IsJSON: true, InternalMsg: internalMsg, resp: errBody{Message: "You don't have permission to do that"}}
}

// Unauthorized returns a 401 error response with a WWW-Authenticate header.
func Unauthorized(internalMsg string, userMsg string) Result {
	r := Result{Status: http.StatusUnauthorized, IsErr: true, IsJSON: true, InternalMsg: internalMsg, resp: errBody{Message: userMsg}}
	return r.WithHeader("WWW-Authenticate", `Bearer realm="ll1gen"`)
}

// InternalServerError returns a 500 error response. The internal message is
// logged but never included in the response body.
func InternalServerError(internalMsg string) Result {
	return Result{Status: http.StatusInternalServerError, IsErr: true, IsJSON: true, InternalMsg: internalMsg, resp: errBody{Message: "An internal server error occurred"}}
}

// Err returns a response at the given status with both an internal message
// and a user-facing one.
func Err(status int, internalMsg string, userMsg string) Result {
	return Result{Status: status, IsErr: true, IsJSON: true, InternalMsg: internalMsg, resp: errBody{Message: userMsg}}
}

// Redirection returns a 3xx redirect to target.
func Redirection(target string) Result {
	return Result{Status: http.StatusSeeOther, redir: target}
}

type errBody struct {
	Message string `json:"message"`
}

// WithHeader attaches an additional response header, returning the updated
// Result for chaining.
func (r Result) WithHeader(key, value string) Result {
	r.hdrs = append(r.hdrs, [2]string{key, value})
	return r
}

// PrepareMarshaledResponse marshals the response body ahead of time, so
// that marshaling failures can be converted into a 500 before any bytes are
// written to the ResponseWriter.
func (r Result) PrepareMarshaledResponse() (Result, error) {
	if !r.IsJSON || r.resp == nil {
		return r, nil
	}
	b, err := json.Marshal(r.resp)
	if err != nil {
		return r, err
	}
	r.respJSONBytes = b
	return r, nil
}

// WriteResponse writes the Result to w: headers, status line, and body, in
// that order.
func (r Result) WriteResponse(w http.ResponseWriter) {
	prepared, err := r.PrepareMarshaledResponse()
	if err != nil {
		prepared = InternalServerError("marshal response: " + err.Error())
		prepared, _ = prepared.PrepareMarshaledResponse()
	}

	for _, h := range prepared.hdrs {
		w.Header().Set(h[0], h[1])
	}

	if prepared.redir != "" {
		w.Header().Set("Location", prepared.redir)
		w.WriteHeader(prepared.Status)
		return
	}

	if prepared.IsJSON {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(prepared.Status)
	if prepared.respJSONBytes != nil {
		w.Write(prepared.respJSONBytes)
	}
}
