package session

import (
	"errors"
	"time"

	"github.com/dmitrymomot/pharmakit/pkg/jwt"
	"github.com/dmitrymomot/pharmakit/pkg/rbac"
)

// Claims is the payload the backend puts in a session token.
type Claims struct {
	jwt.StandardClaims
	UserID string `json:"id,omitempty"`
	Role   string `json:"role"`
}

// Session is an authenticated identity held by the client.
type Session struct {
	Token     string
	Role      rbac.Role
	UserID    string
	ExpiresAt time.Time
}

// ExpiresAtMillis returns the expiry as epoch milliseconds.
func (s Session) ExpiresAtMillis() int64 {
	return s.ExpiresAt.UnixMilli()
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// decodeToken builds a Session from token. With a verifier the signature is
// checked too. Every failure is ErrInvalidToken.
func decodeToken(token string, verifier *jwt.Service) (Session, error) {
	var claims Claims

	var err error
	if verifier != nil {
		err = verifier.Verify(token, &claims)
	} else {
		err = jwt.Decode(token, &claims)
	}
	if err != nil {
		return Session{}, errors.Join(ErrInvalidToken, err)
	}

	role, err := rbac.ParseRole(claims.Role)
	if err != nil {
		return Session{}, errors.Join(ErrInvalidToken, err)
	}
	if claims.ExpiresAt <= 0 {
		return Session{}, errors.Join(ErrInvalidToken, errors.New("missing exp claim"))
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}

	return Session{
		Token:     token,
		Role:      role,
		UserID:    userID,
		ExpiresAt: claims.Expiry(),
	}, nil
}
