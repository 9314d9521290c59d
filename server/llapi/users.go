package llapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/llmiddle"
	"github.com/dekarrin/ll1gen/server/llresult"
	"github.com/dekarrin/ll1gen/server/llserr"
)

func toUserModel(u dao.User) UserModel {
	return UserModel{
		URI:            PathPrefix + "/users/" + u.ID.String(),
		ID:             u.ID.String(),
		Username:       u.Username,
		Role:           u.Role.String(),
		Created:        u.Created.Format(time.RFC3339),
		Modified:       u.Modified.Format(time.RFC3339),
		LastLogoutTime: u.LastLogoutTime.Format(time.RFC3339),
	}
}

// HTTPGetAllUsers returns a HandlerFunc that lists every account. Admin
// auth required.
func (api API) HTTPGetAllUsers() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllUsers)
}

func (api API) epGetAllUsers(req *http.Request) llresult.Result {
	user, _ := llmiddle.LoggedInUser(req.Context())
	if user.Role != dao.Admin {
		return llresult.Forbidden("user '" + user.Username + "' is not an admin")
	}

	users, err := api.Backend.GetAllUsers(req.Context())
	if err != nil {
		return llresult.InternalServerError(err.Error())
	}

	resp := make([]UserModel, len(users))
	for i := range users {
		resp[i] = toUserModel(users[i])
	}
	return llresult.OK(resp)
}

// HTTPCreateUser returns a HandlerFunc that registers a new account. Admin
// auth required.
func (api API) HTTPCreateUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateUser)
}

func (api API) epCreateUser(req *http.Request) llresult.Result {
	user, _ := llmiddle.LoggedInUser(req.Context())
	if user.Role != dao.Admin {
		return llresult.Forbidden("user '" + user.Username + "' is not an admin")
	}

	var body UserModel
	if err := parseJSON(req, &body); err != nil {
		return llresult.BadRequest(err.Error(), err.Error())
	}
	if body.Username == "" {
		return llresult.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if body.Password == "" {
		return llresult.BadRequest("password: property is empty or missing from request", "empty password")
	}

	role := dao.Normal
	if body.Role != "" {
		var err error
		role, err = dao.ParseRole(body.Role)
		if err != nil {
			return llresult.BadRequest("role: "+err.Error(), "invalid role")
		}
	}

	newUser, err := api.Backend.CreateUser(req.Context(), body.Username, body.Password, role)
	if err != nil {
		if errors.Is(err, llserr.ErrAlreadyExists) {
			return llresult.Conflict("username already exists", "username already exists")
		}
		if errors.Is(err, llserr.ErrBadArgument) {
			return llresult.BadRequest(err.Error(), err.Error())
		}
		return llresult.InternalServerError(err.Error())
	}
	return llresult.Created(toUserModel(newUser))
}

// HTTPGetUser returns a HandlerFunc that retrieves one account. Any user
// may retrieve themselves; only an admin may retrieve others.
func (api API) HTTPGetUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetUser)
}

func (api API) epGetUser(req *http.Request) llresult.Result {
	id := requireIDParam(req)
	user, _ := llmiddle.LoggedInUser(req.Context())

	if id != user.ID && user.Role != dao.Admin {
		return llresult.Forbidden("user '" + user.Username + "' attempted to view another user")
	}

	target, err := api.Backend.GetUser(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, llserr.ErrNotFound) {
			return llresult.NotFound()
		}
		return llresult.InternalServerError("could not get user: " + err.Error())
	}
	return llresult.OK(toUserModel(target))
}

// HTTPUpdateUser returns a HandlerFunc that updates an account. Any user
// may update themselves; only an admin may update others or change roles.
func (api API) HTTPUpdateUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epUpdateUser)
}

func (api API) epUpdateUser(req *http.Request) llresult.Result {
	id := requireIDParam(req)
	user, _ := llmiddle.LoggedInUser(req.Context())

	if id != user.ID && user.Role != dao.Admin {
		return llresult.Forbidden("user '" + user.Username + "' attempted to update another user")
	}

	var updateReq UserUpdateRequest
	if err := parseJSON(req, &updateReq); err != nil {
		return llresult.BadRequest(err.Error(), err.Error())
	}

	var updateRole dao.Role
	if updateReq.Role.Update {
		if user.Role != dao.Admin {
			return llresult.Forbidden("user '" + user.Username + "' attempted to change a role")
		}
		var err error
		updateRole, err = dao.ParseRole(updateReq.Role.Value)
		if err != nil {
			return llresult.BadRequest(err.Error(), err.Error())
		}
	}

	updated, err := api.Backend.GetUser(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, llserr.ErrNotFound) {
			return llresult.NotFound()
		}
		return llresult.InternalServerError(err.Error())
	}

	if updateReq.Role.Update {
		updated, err = api.Backend.UpdateRole(req.Context(), id.String(), updateRole)
		if err != nil {
			return llresult.InternalServerError(err.Error())
		}
	}
	if updateReq.Password.Update {
		updated, err = api.Backend.UpdatePassword(req.Context(), id.String(), updateReq.Password.Value)
		if err != nil {
			return llresult.InternalServerError(err.Error())
		}
	}

	return llresult.OK(toUserModel(updated))
}

// HTTPDeleteUser returns a HandlerFunc that removes an account. Any user
// may delete themselves; only an admin may delete others.
func (api API) HTTPDeleteUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteUser)
}

func (api API) epDeleteUser(req *http.Request) llresult.Result {
	id := requireIDParam(req)
	user, _ := llmiddle.LoggedInUser(req.Context())

	if id != user.ID && user.Role != dao.Admin {
		return llresult.Forbidden("user '" + user.Username + "' attempted to delete another user")
	}

	if _, err := api.Backend.DeleteUser(req.Context(), id.String()); err != nil && !errors.Is(err, llserr.ErrNotFound) {
		return llresult.InternalServerError("could not delete user: " + err.Error())
	}
	return llresult.NoContent()
}
