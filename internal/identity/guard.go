package identity

import "errors"

var (
	ErrUnauthorized = errors.New("login required")
	ErrForbidden    = errors.New("not permitted for this account")
)

// Guard decides whether an actor may run an operation.
type Guard func(Actor) error

func RequireLogin(a Actor) error {
	if !a.IsAuthenticated() {
		return ErrUnauthorized
	}
	return nil
}

func RequireAdmin(a Actor) error {
	if err := RequireLogin(a); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// RequireShopper admits logged-in accounts that are not administrators.
func RequireShopper(a Actor) error {
	if err := RequireLogin(a); err != nil {
		return err
	}
	if a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// All returns a guard that passes only when every guard passes, reporting the
// first failure.
func All(guards ...Guard) Guard {
	return func(a Actor) error {
		for _, g := range guards {
			if err := g(a); err != nil {
				return err
			}
		}
		return nil
	}
}
