package session

import "github.com/certapply/certapply/internal/client/models"

// Decision is the guard's verdict for one navigation.
type Decision int

const (
	// Allow lets the navigation proceed.
	Allow Decision = iota
	// RedirectLogin means no principal is stored.
	RedirectLogin
	// RedirectHome means the principal's role is not among those required.
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Authorize is a pure function of (principal, required roles): no network,
// no caching. An empty required set means any authenticated principal
// passes.
func Authorize(p *models.Principal, required ...models.Role) Decision {
	if p == nil {
		return RedirectLogin
	}
	if len(required) == 0 {
		return Allow
	}
	for _, r := range required {
		if p.Role == r {
			return Allow
		}
	}
	return RedirectHome
}

// Authorize re-reads the stored principal and applies the pure guard. It is
// evaluated on every navigation, never cached across navigations: the
// principal may have been cleared since the last call.
func (s *Store) Authorize(required ...models.Role) Decision {
	return Authorize(s.Current(), required...)
}
