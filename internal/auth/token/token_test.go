package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/orderdesk/internal/auth/domain"
	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newIssuer(clk clock.Clock) *Issuer {
	return NewIssuerWithOptions(Options{
		Secret:   []byte("test-secret"),
		Issuer:   "orderdesk",
		Audience: "orderdesk-api",
		TTL:      time.Hour,
	}, clk)
}

func TestIssueAndParse(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	issuer := newIssuer(clk)

	raw, expiresAt, err := issuer.Issue("admin", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(time.Hour), expiresAt)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.True(t, claims.IsAdmin())
}

func TestParseRejectsExpiredToken(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	issuer := newIssuer(clk)

	raw, _, err := issuer.Issue("user", domain.RoleUser)
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	_, err = issuer.Parse(raw)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	issuer := newIssuer(clk)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewIssuerWithOptions(Options{Secret: []byte("other"), Issuer: "orderdesk", Audience: "orderdesk-api"}, clk)
		raw, _, err := other.Issue("admin", domain.RoleAdmin)
		require.NoError(t, err)
		_, err = issuer.Parse(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := NewIssuerWithOptions(Options{Secret: []byte("test-secret"), Issuer: "orderdesk", Audience: "elsewhere"}, clk)
		raw, _, err := other.Issue("admin", domain.RoleAdmin)
		require.NoError(t, err)
		_, err = issuer.Parse(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub":  "admin",
			"role": "Admin",
			"iss":  "orderdesk",
			"aud":  "orderdesk-api",
			"exp":  clk.Now().Add(time.Hour).Unix(),
		})
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Parse(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  "admin",
			"role": "Root",
			"iss":  "orderdesk",
			"aud":  "orderdesk-api",
			"exp":  clk.Now().Add(time.Hour).Unix(),
		})
		raw, err := tok.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = issuer.Parse(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not-a-token")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		_, err = issuer.Parse("")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}

func TestNewIssuerSecretHandling(t *testing.T) {
	log := zaptest.NewLogger(t)

	_, err := NewIssuer(config.Config{Environment: "production"}, clock.SystemClock{}, log)
	assert.ErrorIs(t, err, domain.ErrMissingSecret)

	issuer, err := NewIssuer(config.Config{Environment: "development", AuthJWTIssuer: "i", AuthJWTAudience: "a"}, clock.SystemClock{}, log)
	require.NoError(t, err)
	assert.Len(t, issuer.secret, generatedKeySize)
	assert.Equal(t, defaultTTL, issuer.ttl)
}
