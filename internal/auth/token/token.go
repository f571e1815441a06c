// Package token issues and verifies HS256 access tokens.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/orderdesk/internal/auth/domain"
	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/config"
	"go.uber.org/zap"
)

const (
	defaultTTL       = time.Hour
	generatedKeySize = 32
)

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	clock    clock.Clock
}

type Options struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

// NewIssuer builds the issuer from configuration. Outside production a
// missing secret is replaced by a random per-process key, so tokens do not
// survive a restart.
func NewIssuer(cfg config.Config, clk clock.Clock, log *zap.Logger) (*Issuer, error) {
	secret := []byte(strings.TrimSpace(cfg.AuthJWTSecret))
	if len(secret) == 0 {
		if cfg.IsProduction() {
			return nil, domain.ErrMissingSecret
		}
		secret = make([]byte, generatedKeySize)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		log.Named("auth.token").Warn("AUTH_JWT_SECRET not set, using a random signing key")
	}

	return NewIssuerWithOptions(Options{
		Secret:   secret,
		Issuer:   cfg.AuthJWTIssuer,
		Audience: cfg.AuthJWTAudience,
		TTL:      time.Duration(cfg.AuthJWTTTLMinutes) * time.Minute,
	}, clk), nil
}

func NewIssuerWithOptions(opts Options, clk clock.Clock) *Issuer {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Issuer{
		secret:   opts.Secret,
		issuer:   opts.Issuer,
		audience: opts.Audience,
		ttl:      ttl,
		clock:    clk,
	}
}

// Issue signs a token for subject and returns it with its expiry.
func (i *Issuer) Issue(subject string, role domain.Role) (string, time.Time, error) {
	now := i.clock.Now().UTC().Truncate(time.Second)
	expiresAt := now.Add(i.ttl)

	claims := accessClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, signing method, expiry, issuer and audience.
func (i *Issuer) Parse(raw string) (*domain.Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.ErrInvalidToken
	}

	var claims accessClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok || strings.TrimSpace(claims.Subject) == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.Claims{
		Subject: claims.Subject,
		Role:    role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
