// Package llmiddle contains HTTP middleware for the grammar registry
// service.
//
// Grounded on server/middle/middle.go: the Middleware function type, the
// AuthHandler request flow (required vs optional auth, context keys), and
// DontPanic's recover-and-500 shape all carry over directly, repointed at
// lltoken/llresult/llserr instead of the teacher's token/result/serr.
package llmiddle

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/llresult"
	"github.com/dekarrin/ll1gen/server/lltoken"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware wraps a handler with additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthUser
)

// AuthHandler extracts a bearer token from a request and resolves it to a
// dao.User, attaching both to the request context before calling next.
type AuthHandler struct {
	db            dao.UserRepository
	secret        []byte
	required      bool
	defaultUser   dao.User
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	user := ah.defaultUser

	tok, err := lltoken.Get(req)
	if err != nil {
		if ah.required {
			r := llresult.Unauthorized(err.Error(), "authentication is required")
			time.Sleep(ah.unauthedDelay)
			r.WriteResponse(w)
			return
		}
	} else {
		lookupUser, err := lltoken.Validate(req.Context(), tok, ah.secret, ah.db)
		if err != nil {
			if ah.required {
				r := llresult.Unauthorized(err.Error(), "credentials are invalid or expired")
				time.Sleep(ah.unauthedDelay)
				r.WriteResponse(w)
				return
			}
		} else {
			user = lookupUser
			loggedIn = true
		}
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthUser, user)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth rejects any request without a valid bearer token.
func RequireAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      true,
			next:          next,
		}
	}
}

// OptionalAuth resolves a bearer token if present but allows the request
// through either way.
func OptionalAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      false,
			next:          next,
		}
	}
}

// DontPanic recovers from a panic in next, returning a generic 500 instead
// of crashing the server.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := llresult.InternalServerError(fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())))
		r.WriteResponse(w)
		return true
	}
	return false
}

// LoggedInUser retrieves the user AuthHandler attached to ctx.
func LoggedInUser(ctx context.Context) (dao.User, bool) {
	u, ok := ctx.Value(AuthUser).(dao.User)
	return u, ok
}

// IsLoggedIn reports whether AuthHandler resolved a user for ctx.
func IsLoggedIn(ctx context.Context) bool {
	li, ok := ctx.Value(AuthLoggedIn).(bool)
	return ok && li
}
