package llapi

// These are the models sent to and received from API clients; they are
// distinct from the dao models, which are closer to storage format.
//
// Grounded on server/reqmodels.go, trimmed of the email field this domain
// has no use for.

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
}

type UserUpdateRequest struct {
	Username UpdateString `json:"username,omitempty"`
	Password UpdateString `json:"password,omitempty"`
	Role     UpdateString `json:"role,omitempty"`
}

type UpdateString struct {
	Update bool   `json:"u,omitempty"`
	Value  string `json:"v,omitempty"`
}

// RuleModel is one submitted grammar rule (one head, one alternative body).
type RuleModel struct {
	NonTerminal string   `json:"non_terminal"`
	Body        []string `json:"body"`
}

// GrammarSubmitRequest is the body of a grammar submission.
type GrammarSubmitRequest struct {
	Name  string      `json:"name"`
	Terms []string    `json:"terms"`
	Rules []RuleModel `json:"rules"`
	Start string      `json:"start"`
}

// GrammarModel is a stored grammar as returned to clients.
type GrammarModel struct {
	URI      string      `json:"uri"`
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Terms    []string    `json:"terms"`
	Rules    []RuleModel `json:"rules"`
	Start    string      `json:"start"`
	IsLL1    bool        `json:"is_ll1"`
	Created  string      `json:"created"`
	Modified string      `json:"modified"`
}

// EmitRequest configures the generated Go source for a grammar.
type EmitRequest struct {
	Package string `json:"package"`
	Name    string `json:"name"`
}

// EmitResponse carries the generated source and any non-fatal diagnostics.
type EmitResponse struct {
	Source      string   `json:"source"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// InfoModel describes the running service.
type InfoModel struct {
	Version struct {
		Server string `json:"server"`
	} `json:"version"`
}
