package usecase

import (
	"board-automation/internal/automation"
	"board-automation/internal/task"
	"board-automation/internal/task/repository"
	"board-automation/pkg/log"
)

// implUseCase is the private implementation of task.UseCase.
type implUseCase struct {
	repo repository.Repository
	l    log.Logger
}

// New creates a new task UseCase implementation.
func New(repo repository.Repository, l log.Logger) *implUseCase {
	return &implUseCase{
		repo: repo,
		l:    l,
	}
}

var (
	_ task.UseCase           = (*implUseCase)(nil)
	_ automation.TaskMutator = (*implUseCase)(nil)
)
