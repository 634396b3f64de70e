package v1

import (
	"github.com/enrollhq/enroll/internal/usecase"
	"github.com/enrollhq/enroll/pkg/logger"
)

type V1 struct {
	lc     usecase.LifecycleUseCase
	dir    usecase.DirectoryUseCase
	dsp    usecase.DispatchUseCase
	logger logger.Interface
}
