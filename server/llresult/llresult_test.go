package llresult

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_OK_WriteResponse(t *testing.T) {
	assert := assert.New(t)

	r := OK(map[string]string{"name": "Expr"})
	w := httptest.NewRecorder()
	r.WriteResponse(w)

	assert.Equal(http.StatusOK, w.Code)
	assert.Equal("application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal("Expr", body["name"])
}

func Test_NoContent_WriteResponse(t *testing.T) {
	assert := assert.New(t)

	w := httptest.NewRecorder()
	NoContent().WriteResponse(w)

	assert.Equal(http.StatusNoContent, w.Code)
	assert.Empty(w.Body.Bytes())
}

func Test_Conflict_WriteResponse(t *testing.T) {
	assert := assert.New(t)

	w := httptest.NewRecorder()
	Conflict("grammar already exists for owner", "a grammar with that name already exists").WriteResponse(w)

	assert.Equal(http.StatusConflict, w.Code)
	var body errBody
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal("a grammar with that name already exists", body.Message)
}

func Test_Unauthorized_SetsWWWAuthenticate(t *testing.T) {
	assert := assert.New(t)

	w := httptest.NewRecorder()
	Unauthorized("no token", "you must log in").WriteResponse(w)

	assert.Equal(http.StatusUnauthorized, w.Code)
	assert.Equal(`Bearer realm="ll1gen"`, w.Header().Get("WWW-Authenticate"))
}

func Test_Redirection_WriteResponse(t *testing.T) {
	assert := assert.New(t)

	w := httptest.NewRecorder()
	Redirection("/grammars/123").WriteResponse(w)

	assert.Equal(http.StatusSeeOther, w.Code)
	assert.Equal("/grammars/123", w.Header().Get("Location"))
	assert.Empty(w.Body.Bytes())
}

func Test_WriteResponse_MarshalFailureBecomes500(t *testing.T) {
	assert := assert.New(t)

	// channels cannot be marshaled to JSON, forcing PrepareMarshaledResponse
	// to fail.
	r := OK(make(chan int))
	w := httptest.NewRecorder()
	r.WriteResponse(w)

	assert.Equal(http.StatusInternalServerError, w.Code)
}
