package middleware

import (
	"net/http"

	"ndr-srv/pkg/discord"
	"ndr-srv/pkg/log"
	"ndr-srv/pkg/response"
	"ndr-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

// Recovery answers a panicking handler with 500 and reports it to Discord.
// The log line carries the matched route and the operator from the request scope.
func Recovery(logger log.Logger, discordClient discord.IDiscord) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			ctx := c.Request.Context()
			route := c.FullPath()
			if route == "" {
				route = c.Request.URL.Path
			}
			operator := "anonymous"
			if sc := scope.GetScopeFromContext(ctx); sc.UserID != "" {
				operator = sc.UserID + "/" + sc.Role
			}
			logger.Errorf(ctx, "internal.middleware.Recovery: %v | Method: %s | Route: %s | Operator: %s",
				rec, c.Request.Method, route, operator)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.PanicError(c, rec, discordClient)
			c.Abort()
		}()
		c.Next()
	}
}
