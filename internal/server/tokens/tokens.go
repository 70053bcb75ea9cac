// Package tokens mints and validates the JWTs used for authentication.
// Access and refresh tokens share one HS256 secret and are told apart by a
// "kind" claim, which is checked on every parse: presenting an access token
// where a refresh token is expected fails with ErrInvalidTokenKind.
//
// A refresh token is only half the story — it is also stored server-side and
// honored while its row exists, so rotation can revoke the predecessor.
// That bookkeeping lives with the identity service; this package is pure.
package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tensillabs/teamspace/internal/common"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims includes the registered claims plus the user id and token kind.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Kind   string `json:"kind"`
}

// Issuer mints access/refresh token pairs for user ids.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// AccessTTL reports the configured access token lifetime.
func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

// RefreshTTL reports the configured refresh token lifetime, used by callers
// that persist refresh tokens alongside their expiry.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// IssueAccess returns a signed short-lived access token for userID.
func (i *Issuer) IssueAccess(userID string) (string, error) {
	return i.sign(userID, KindAccess, i.accessTTL)
}

// IssueRefresh returns a signed long-lived refresh token for userID.
func (i *Issuer) IssueRefresh(userID string) (string, error) {
	return i.sign(userID, KindRefresh, i.refreshTTL)
}

func (i *Issuer) sign(userID, kind string, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
		Kind:   kind,
	})

	return token.SignedString(i.secret)
}

// ParseAccess validates an access token and returns the user id it carries.
func (i *Issuer) ParseAccess(tokenString string) (string, error) {
	return i.parse(tokenString, KindAccess)
}

// ParseRefresh validates a refresh token and returns the user id it carries.
// A well-formed token of the wrong kind fails with ErrInvalidTokenKind.
func (i *Issuer) ParseRefresh(tokenString string) (string, error) {
	return i.parse(tokenString, KindRefresh)
}

func (i *Issuer) parse(tokenString, wantKind string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && wantKind == KindRefresh {
			return "", common.ErrRefreshTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	if claims.Kind != wantKind {
		return "", common.ErrInvalidTokenKind
	}

	return claims.UserID, nil
}
