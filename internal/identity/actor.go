// Package identity resolves who is acting on a request and what they may do.
package identity

type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleShopper   Role = "shopper"
	RoleAdmin     Role = "admin"
)

// Actor is the resolved identity behind a request.
type Actor struct {
	Role   Role   `json:"role"`
	UserID int64  `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

func Anonymous() Actor {
	return Actor{Role: RoleAnonymous}
}

func (a Actor) IsAuthenticated() bool {
	return a.Role == RoleShopper || a.Role == RoleAdmin
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// UserIDPtr returns the actor's user id, or nil for anonymous actors.
func (a Actor) UserIDPtr() *int64 {
	if !a.IsAuthenticated() {
		return nil
	}
	id := a.UserID
	return &id
}
