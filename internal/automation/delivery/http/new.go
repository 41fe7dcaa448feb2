package http

import (
	"github.com/gin-gonic/gin"

	"board-automation/internal/automation"
	"board-automation/pkg/log"
)

// Handler is the public interface for the automation HTTP delivery
// layer.
type Handler interface {
	Trigger(c *gin.Context)
	CreateRule(c *gin.Context)
	ListRules(c *gin.Context)
	DetailRule(c *gin.Context)
	SetRuleActive(c *gin.Context)
	DeleteRule(c *gin.Context)
	TestRule(c *gin.Context)
	ListLogs(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc automation.UseCase
}

// New creates a new HTTP handler for the automation domain.
func New(l log.Logger, uc automation.UseCase) Handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
