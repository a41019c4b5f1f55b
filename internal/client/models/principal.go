package models

// Principal is the authenticated identity driving authorization decisions.
// A Principal is immutable once created: logging in as somebody else
// replaces the stored value, it never mutates the role in place.
type Principal struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"username"`
	Role        Role   `json:"role"`
	Credential  string `json:"token"`
}
