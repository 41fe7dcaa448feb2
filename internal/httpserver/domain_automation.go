package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	automationHTTP "board-automation/internal/automation/delivery/http"
	automationRepo "board-automation/internal/automation/repository"
	automationPostgre "board-automation/internal/automation/repository/postgre"
	automationUC "board-automation/internal/automation/usecase"
	"board-automation/internal/middleware"
	taskRepo "board-automation/internal/task/repository/postgre"
	taskUC "board-automation/internal/task/usecase"
	"board-automation/internal/webhook"
)

// setupAutomationDomain wires the rule engine and registers its routes.
//
// Wiring order:
//  1. Task repository and usecase (the engine's board mutator)
//  2. Outbound webhook sender
//  3. Automation repository, with a read-through cache on the rule side
//  4. Automation usecase
//  5. HTTP handler and routes under /api/v1/automation
func (srv HTTPServer) setupAutomationDomain(ctx context.Context, api *gin.RouterGroup, mw middleware.Middleware) error {
	// 1. Board mutator
	tasks := taskUC.New(taskRepo.New(srv.postgresDB, srv.l), srv.l)

	// 2. Webhook sender
	sender := webhook.NewSender(srv.webhookConfig, srv.l)

	// 3. Stores. The dispatch path reads rules through the cache; the
	// authoring path uses the same decorator so writes invalidate it.
	repo := automationPostgre.New(srv.postgresDB, srv.l)
	rules := automationRepo.NewCachedRuleRepository(repo, srv.ruleCacheSize, srv.ruleCacheTTL)

	// 4. UseCase
	uc := automationUC.New(automationUC.Config{
		RuleRepo:      rules,
		LogRepo:       repo,
		Tasks:         tasks,
		Webhooks:      sender,
		MaxChainDepth: srv.maxChainDepth,
	}, srv.l)

	// 5. Routes: registers /api/v1/automation/...
	h := automationHTTP.New(srv.l, uc)
	automationHTTP.RegisterRoutes(api.Group("/automation"), h, mw)

	srv.l.Infof(ctx, "Automation domain registered")
	return nil
}
