package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireAction lets the request through only when the authenticated subject
// may perform action on object. It must run after AuthRequired.
func (s *Server) RequireAction(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.authorize(c, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func (s *Server) authorize(c *gin.Context, object string, action string) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return ErrUnauthorized
	}
	if s.authzSvc == nil {
		return ErrForbidden
	}
	return s.authzSvc.Authorize(
		c.Request.Context(),
		claims.Subject,
		string(claims.Role),
		strings.TrimSpace(object),
		strings.TrimSpace(action),
	)
}
