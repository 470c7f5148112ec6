package auth

import (
	"strings"
	"time"

	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/config"
	pkgerrors "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Credential is the opaque bearer token handed to the backend and to the
// realtime handshake. The client never verifies the signature; it only reads
// the registered claims to refuse connecting with a token that is already
// expired or issued by the wrong party.
type Credential struct {
	Token     string
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

type parsedClaims struct {
	jwt.RegisteredClaims
}

// ParseCredential inspects a bearer token without verifying it.
func ParseCredential(cfg config.JWTConfig, token string) (*Credential, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "credential is required")
	}

	claims := &parsedClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "credential is not a parseable token")
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "credential issued by unexpected party")
	}

	cred := &Credential{
		Token:   token,
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		cred.ExpiresAt = claims.ExpiresAt.Time
	}
	return cred, nil
}

// Valid reports whether the credential is usable at the given instant,
// tolerating the configured leeway of clock skew.
func (c *Credential) Valid(cfg config.JWTConfig, now time.Time) bool {
	if c == nil || c.Token == "" {
		return false
	}
	if c.ExpiresAt.IsZero() {
		return true
	}
	return now.Before(c.ExpiresAt.Add(cfg.ExpiryLeeway))
}
