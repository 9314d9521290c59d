package llapi

import (
	"net/http"

	"github.com/dekarrin/ll1gen/internal/version"
	"github.com/dekarrin/ll1gen/server/llmiddle"
	"github.com/dekarrin/ll1gen/server/llresult"
)

// HTTPGetInfo returns a HandlerFunc that reports version info about the
// running service. Does not require authentication.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) llresult.Result {
	_ = llmiddle.IsLoggedIn(req.Context())

	var resp InfoModel
	resp.Version.Server = version.Current
	return llresult.OK(resp)
}
