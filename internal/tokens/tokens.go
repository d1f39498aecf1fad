package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind distinguishes the two token variants issued by the codec.
type Kind int

const (
	Access Kind = iota
	Refresh
)

func (k Kind) String() string {
	if k == Refresh {
		return "refresh"
	}
	return "access"
}

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// Subject is the minimal user descriptor embedded in every token. The
// principal middleware still re-fetches the live user record; the embedded
// role is never trusted for authorization decisions.
type Subject struct {
	ID    string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Claims struct {
	User    Subject `json:"user"`
	Refresh bool    `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access and refresh tokens with a process-wide
// secret. Rotating the secret invalidates every outstanding token.
type Codec struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewCodec(secret []byte) *Codec {
	return &Codec{
		Secret:     secret,
		AccessTTL:  DefaultAccessTTL,
		RefreshTTL: DefaultRefreshTTL,
	}
}

func (c *Codec) ttl(kind Kind) time.Duration {
	if kind == Refresh {
		return c.RefreshTTL
	}
	return c.AccessTTL
}

// Issue signs a token for sub with a fresh jti and exp = now + the kind's TTL.
func (c *Codec) Issue(sub Subject, kind Kind, now time.Time) (string, *Claims, error) {
	claims := &Claims{
		User:    sub,
		Refresh: kind == Refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl(kind))),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, claims, nil
}

// Decode verifies the signature and structure of raw and returns its claims.
// Expired tokens fail here; revocation and kind checks are the guard's job.
func (c *Codec) Decode(raw string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
