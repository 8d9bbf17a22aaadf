package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/authz"
	"github.com/festy23/workmatch/internal/response"
)

// Authorize lets the request through only if the caller's role may perform
// action on object.
func Authorize(az authz.Authorizer, logger *zap.SugaredLogger, object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		err := az.Authorize(p.Role(), object, action)
		if err == nil {
			c.Next()
			return
		}
		if errors.Is(err, authz.ErrForbidden) {
			if p.Type == AccountAnonymous {
				response.Error(c, "UNAUTHORIZED", "authentication required", http.StatusUnauthorized)
				return
			}
			response.Forbidden(c, "operation not permitted for "+string(p.Type))
			return
		}
		logger.Errorw("authorization failed", "object", object, "action", action, "error", err)
		response.Internal(c)
	}
}
