// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/pkg/logger"
)

// Recovery middleware turns a handler panic into a 500 INTERNAL_ERROR reply
// tagged with the request id. The stack goes to the log only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			logger.Error(c.Request.Context(), "panic recovered",
				"panic", p,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"stack", string(debug.Stack()))

			_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", p)).
				WithDetail("request_id", c.GetString(keyRequestID)))
			c.Abort()
			renderErrors(c)
		}()
		c.Next()
	}
}
