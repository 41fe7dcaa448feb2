package http

import (
	"github.com/gin-gonic/gin"

	"board-automation/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods. The
// whole surface is internal: the board service calls the trigger
// ingress, the board UI proxies the authoring and log routes.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	rg.POST("/triggers", mw.InternalAuth(), h.Trigger)

	rules := rg.Group("/rules")
	{
		rules.POST("", mw.InternalAuth(), h.CreateRule)
		rules.GET("", mw.InternalAuth(), h.ListRules)
		rules.GET("/:id", mw.InternalAuth(), h.DetailRule)
		rules.PATCH("/:id/active", mw.InternalAuth(), h.SetRuleActive)
		rules.DELETE("/:id", mw.InternalAuth(), h.DeleteRule)
		rules.POST("/:id/test", mw.InternalAuth(), h.TestRule)
		rules.GET("/:id/logs", mw.InternalAuth(), h.ListLogs)
	}
}
