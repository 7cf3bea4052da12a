package access

import (
	"net/url"
	"strings"

	"bazaarbondhu/internal/domain/entity"
)

const (
	LoginPath     = "/login"
	ForbiddenPath = "/forbidden"
	FromParam     = "from"
)

type Outcome int

const (
	OutcomeUnauthenticated Outcome = iota
	OutcomeResolving
	OutcomeAuthorized
	OutcomeForbidden
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResolving:
		return "resolving"
	case OutcomeAuthorized:
		return "authorized"
	case OutcomeForbidden:
		return "forbidden"
	default:
		return "unauthenticated"
	}
}

// Requirement describes who may render a route. A zero Requirement is a
// public route. Authenticated with no Roles admits any resolved role.
type Requirement struct {
	Authenticated bool
	Roles         []entity.Role
}

func Public() Requirement { return Requirement{} }

func AnyRole() Requirement { return Requirement{Authenticated: true} }

func OnlyRoles(roles ...entity.Role) Requirement {
	return Requirement{Authenticated: true, Roles: roles}
}

func (r Requirement) Admits(role entity.Role) bool {
	if !role.Valid() {
		return false
	}
	if len(r.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

// Render reports whether the page may be shown.
func (d Decision) Render() bool {
	return d.Outcome == OutcomeAuthorized
}

// Decide maps (identity, role state, requirement) onto a guard outcome.
// Role-gated routes never render while the role is unresolved or resolving,
// and a failed resolution is Forbidden, not a fallback role.
func Decide(id *Identity, state RoleState, req Requirement, requestedPath string) Decision {
	if !req.Authenticated {
		return Decision{Outcome: OutcomeAuthorized}
	}

	if !id.Present() {
		return Decision{
			Outcome:    OutcomeUnauthenticated,
			RedirectTo: LoginRedirect(requestedPath),
		}
	}

	switch state.Phase {
	case PhaseUnresolved, PhaseResolving:
		return Decision{Outcome: OutcomeResolving}
	case PhaseFailed:
		return Decision{Outcome: OutcomeForbidden, RedirectTo: ForbiddenPath}
	}

	if !req.Admits(state.Role) {
		return Decision{Outcome: OutcomeForbidden, RedirectTo: ForbiddenPath}
	}

	return Decision{Outcome: OutcomeAuthorized}
}

// LoginRedirect builds the login URL that carries the originally requested path.
func LoginRedirect(requestedPath string) string {
	if requestedPath == "" || requestedPath == LoginPath {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{FromParam: {requestedPath}}.Encode()
}

// ReturnPath extracts the preserved path from a login URL. Only local paths
// are honoured.
func ReturnPath(loginURL string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return ""
	}
	from := u.Query().Get(FromParam)
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return ""
	}
	return from
}
