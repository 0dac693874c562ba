package identity

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session token")

const sessionIssuer = "nava-store"

// Session ties a browser session id, which keys the cart, to the actor
// logged in on it.
type Session struct {
	ID    string
	Actor Actor
}

// NewSession starts an anonymous session with a fresh id.
func NewSession() Session {
	return Session{ID: uuid.NewString(), Actor: Anonymous()}
}

// WithActor returns s logged in as actor. The session id is kept so the cart
// survives login.
func (s Session) WithActor(actor Actor) Session {
	s.Actor = actor
	return s
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// SessionCodec signs sessions into cookie values and verifies them back.
type SessionCodec struct {
	secret []byte
	now    func() time.Time
}

func NewSessionCodec(secret string) *SessionCodec {
	return &SessionCodec{secret: []byte(secret), now: time.Now}
}

func (c *SessionCodec) Encode(s Session) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       s.ID,
			Issuer:   sessionIssuer,
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
		Role:  s.Actor.Role,
		Name:  s.Actor.Name,
		Email: s.Actor.Email,
	}
	if s.Actor.IsAuthenticated() {
		claims.Subject = strconv.FormatInt(s.Actor.UserID, 10)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

func (c *SessionCodec) Decode(token string) (Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.ID == "" {
		return Session{}, fmt.Errorf("%w: missing session id", ErrInvalidSession)
	}

	actor := Anonymous()
	switch claims.Role {
	case RoleShopper, RoleAdmin:
		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return Session{}, fmt.Errorf("%w: bad subject", ErrInvalidSession)
		}
		actor = Actor{Role: claims.Role, UserID: userID, Name: claims.Name, Email: claims.Email}
	case RoleAnonymous:
	default:
		return Session{}, fmt.Errorf("%w: unknown role %q", ErrInvalidSession, claims.Role)
	}

	return Session{ID: claims.ID, Actor: actor}, nil
}
