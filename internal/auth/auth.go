package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mkamath/quotedesk/internal/model"
)

// Parser validates access tokens and extracts the caller's principal.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (p *Parser) Parse(token string) (model.Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return model.Principal{}, fmt.Errorf("invalid token claims")
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return model.Principal{}, fmt.Errorf("invalid subject: %w", err)
	}

	return model.Principal{
		UserID: userID,
		Name:   c.Name,
		Role:   model.Role(c.Role),
	}, nil
}

// Sign issues an access token for a member. Token issuance normally
// lives in the identity service; this exists for local setups and tests.
func (p *Parser) Sign(member model.Member) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: member.Name,
		Role: string(member.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: member.ID.String(),
		},
	})
	return token.SignedString(p.secret)
}
