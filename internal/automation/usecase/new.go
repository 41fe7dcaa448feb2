package usecase

import (
	"board-automation/internal/automation"
	"board-automation/internal/automation/condition"
	"board-automation/internal/automation/repository"
	"board-automation/pkg/log"
)

// DefaultMaxChainDepth bounds re-entrant trigger chains when the
// configuration does not set one.
const DefaultMaxChainDepth = 5

// collaborators groups the side-effect surfaces one dispatch run uses.
// Live runs carry the wired mutator and sender; test runs carry the
// no-op preview pair.
type collaborators struct {
	tasks    automation.TaskMutator
	webhooks automation.WebhookSender
}

// implUseCase is the private implementation of automation.UseCase.
type implUseCase struct {
	ruleRepo repository.RuleRepository
	logRepo  repository.LogRepository
	cond     condition.Service
	live     collaborators
	preview  collaborators
	rec      *recorder

	maxChainDepth int
	l             log.Logger
}

// Config wires the engine's collaborators.
type Config struct {
	RuleRepo repository.RuleRepository
	LogRepo  repository.LogRepository
	Tasks    automation.TaskMutator
	Webhooks automation.WebhookSender

	// MaxChainDepth bounds chained rule activations. Zero or negative
	// falls back to DefaultMaxChainDepth.
	MaxChainDepth int
}

// New creates a new automation UseCase implementation.
func New(cfg Config, l log.Logger) *implUseCase {
	depth := cfg.MaxChainDepth
	if depth <= 0 {
		depth = DefaultMaxChainDepth
	}
	return &implUseCase{
		ruleRepo:      cfg.RuleRepo,
		logRepo:       cfg.LogRepo,
		cond:          condition.New(),
		live:          collaborators{tasks: cfg.Tasks, webhooks: cfg.Webhooks},
		preview:       collaborators{tasks: previewMutator{}, webhooks: previewSender{}},
		rec:           &recorder{repo: cfg.LogRepo, l: l},
		maxChainDepth: depth,
		l:             l,
	}
}

var _ automation.UseCase = (*implUseCase)(nil)
