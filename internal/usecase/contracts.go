package usecase

import (
	"context"

	"github.com/enrollhq/enroll/internal/dto"
	"github.com/enrollhq/enroll/internal/entity"
)

type (
	LifecycleUseCase interface {
		Apply(ctx context.Context, submission dto.Submission) (*dto.TransitionResult, error)
		Delete(ctx context.Context, username string) error
	}

	DirectoryUseCase interface {
		List(ctx context.Context, query dto.ListQuery, principal entity.Principal) (*dto.ListResult, error)
		ListGrouped(ctx context.Context, query dto.ListQuery, principal entity.Principal) (map[entity.Status][]*entity.Record, error)
		Image(ctx context.Context, status entity.Status, username string) ([]byte, error)
	}

	DispatchUseCase interface {
		Dispatch(ctx context.Context, username, status string) (*dto.DispatchResult, error)
	}
)
