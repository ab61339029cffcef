package auth

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/workhub/workhub/internal/model"
)

// Token verification errors.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// validMethods restricts verification to EdDSA. Tokens signed with any
// other algorithm (including "none") are rejected.
var validMethods = []string{"EdDSA"}

// Claims is the JWT claim set carried by access tokens.
// Subject holds the user ID.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens with an ed25519 key pair.
type TokenIssuer struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	ttl        time.Duration
}

// NewTokenIssuer creates a TokenIssuer. ttl controls how long issued
// tokens remain valid.
func NewTokenIssuer(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        ttl,
	}
}

// Issue signs an access token for the given user.
func (t *TokenIssuer) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := tok.SignedString(t.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token string, returning the caller
// identity on success.
func (t *TokenIssuer) Verify(tokenString string) (*model.Identity, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (interface{}, error) { return t.publicKey, nil },
		jwt.WithValidMethods(validMethods),
	)
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !tok.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return &model.Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
	}, nil
}
