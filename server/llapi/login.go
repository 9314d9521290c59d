package llapi

import (
	"errors"
	"net/http"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/llmiddle"
	"github.com/dekarrin/ll1gen/server/llresult"
	"github.com/dekarrin/ll1gen/server/llserr"
	"github.com/dekarrin/ll1gen/server/lltoken"
)

// HTTPCreateLogin returns a HandlerFunc that logs in a user with a username
// and password and returns an auth token for them.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) llresult.Result {
	var loginData LoginRequest
	if err := parseJSON(req, &loginData); err != nil {
		return llresult.BadRequest(err.Error(), err.Error())
	}
	if loginData.Username == "" {
		return llresult.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if loginData.Password == "" {
		return llresult.BadRequest("password: property is empty or missing from request", "empty password")
	}

	user, err := api.Backend.Login(req.Context(), loginData.Username, loginData.Password)
	if err != nil {
		if errors.Is(err, llserr.ErrBadCredentials) {
			return llresult.Unauthorized(err.Error(), "incorrect username or password")
		}
		return llresult.InternalServerError(err.Error())
	}

	tok, err := lltoken.Generate(user, api.Secret)
	if err != nil {
		return llresult.InternalServerError("could not generate JWT: " + err.Error())
	}

	return llresult.Created(LoginResponse{Token: tok, UserID: user.ID.String()})
}

// HTTPCreateToken returns a HandlerFunc that issues a fresh token for the
// currently logged-in user.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) llresult.Result {
	user, _ := llmiddle.LoggedInUser(req.Context())

	tok, err := lltoken.Generate(user, api.Secret)
	if err != nil {
		return llresult.InternalServerError("could not generate JWT: " + err.Error())
	}
	return llresult.Created(LoginResponse{Token: tok, UserID: user.ID.String()})
}

// HTTPDeleteLogin returns a HandlerFunc that logs a user out, invalidating
// every token issued to them before now. Only an admin may log out another
// user.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) llresult.Result {
	id := requireIDParam(req)
	user, _ := llmiddle.LoggedInUser(req.Context())

	if id != user.ID && user.Role != dao.Admin {
		return llresult.Forbidden("user '" + user.Username + "' attempted to log out another user")
	}

	if _, err := api.Backend.Logout(req.Context(), id); err != nil {
		if errors.Is(err, llserr.ErrNotFound) {
			return llresult.NotFound()
		}
		return llresult.InternalServerError("could not log out user: " + err.Error())
	}
	return llresult.NoContent()
}
