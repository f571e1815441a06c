package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/orderdesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/orderdesk/internal/auth/domain"
	obscontext "github.com/smallbiznis/orderdesk/internal/observability/context"
	"github.com/smallbiznis/orderdesk/internal/observability/logger"
	"go.uber.org/zap"
)

const (
	contextClaimsKey       = "auth_claims"
	contextLoginRequestKey = "login_request"
	bearerPrefix           = "bearer "
)

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	ExpiresIn   int64     `json:"expires_in"`
}

// bindLoginRequest accepts credentials from the query string or a JSON body.
// The result is cached on the context so the rate limiter and the handler
// read the body once.
func bindLoginRequest(c *gin.Context) (LoginRequest, error) {
	if cached, ok := c.Get(contextLoginRequestKey); ok {
		if req, ok := cached.(LoginRequest); ok {
			return req, nil
		}
	}

	req := LoginRequest{
		Username: c.Query("username"),
		Password: c.Query("password"),
	}
	if req.Username == "" && req.Password == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return LoginRequest{}, invalidRequestError()
		}
	}
	req.Username = strings.TrimSpace(req.Username)

	c.Set(contextLoginRequestKey, req)
	return req, nil
}

func (s *Server) Login(c *gin.Context) {
	req, err := bindLoginRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	ctx := c.Request.Context()
	result, err := s.authsvc.Login(ctx, authdomain.LoginRequest{
		Username:  req.Username,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		if s.auditSvc != nil && errors.Is(err, authdomain.ErrInvalidCredentials) {
			_ = s.auditSvc.AuditLog(ctx, string(auditdomain.ActorTypeUser), nil, "user.login_failed", "user", nil, map[string]any{
				"username": req.Username,
			})
		}
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		username := strings.ToLower(req.Username)
		_ = s.auditSvc.AuditLog(ctx, string(auditdomain.ActorTypeUser), &username, "user.login", "user", &username, map[string]any{
			"role": string(result.Role),
		})
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		ExpiresIn:   int64(time.Until(result.ExpiresAt).Seconds()),
	})
}

// LoginRateLimit throttles login attempts per client address and username.
func (s *Server) LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.loginLimiter == nil {
			c.Next()
			return
		}

		req, err := bindLoginRequest(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := c.Request.Context()
		result, err := s.loginLimiter.Allow(ctx, c.ClientIP(), req.Username)
		if err != nil {
			logger.FromContext(ctx).Warn("login rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !result.Allowed {
			logger.FromContext(ctx).Warn("login rate limit exceeded", zap.String("client_ip", c.ClientIP()))
			s.obsMetrics.RecordRateLimitDenied(ctx, "login")

			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a valid bearer token.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.authenticate(c, raw); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuth authenticates when a bearer token is present and lets
// anonymous requests through. A malformed or expired token is still rejected.
func (s *Server) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		if err := s.authenticate(c, raw); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func (s *Server) authenticate(c *gin.Context, raw string) error {
	claims, err := s.authsvc.Authenticate(c.Request.Context(), raw)
	if err != nil {
		return err
	}
	c.Set(contextClaimsKey, claims)
	c.Request = c.Request.WithContext(obscontext.WithActor(c.Request.Context(), string(claims.Role), claims.Subject))
	return nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

func claimsFromContext(c *gin.Context) (*authdomain.Claims, bool) {
	value, ok := c.Get(contextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*authdomain.Claims)
	return claims, ok && claims != nil
}
