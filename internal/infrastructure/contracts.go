package infrastructure

import (
	"context"

	"github.com/enrollhq/enroll/internal/entity"
)

type (
	// ImageNormalizer validates a submitted photo and returns it re-encoded
	// at the fixed square resolution.
	ImageNormalizer interface {
		Normalize(ctx context.Context, data []byte) ([]byte, error)
	}

	EventsSender interface {
		SendTransition(ctx context.Context, event *entity.TransitionEvent) error
		Close() error
	}
)
