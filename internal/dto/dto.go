package dto

import "github.com/enrollhq/enroll/internal/entity"

type (
	// Submission carries one transition request into the lifecycle usecase.
	// ImageData is the raw (pre-normalization) photo; only submit requires it.
	Submission struct {
		Username   string
		NationalID string
		Name       string
		Department string
		Government string
		Action     entity.Action
		ImageData  []byte
	}

	// TransitionResult reports where the canonical directory ended up.
	TransitionResult struct {
		Record    *entity.Record
		SavedPath string
	}

	ListQuery struct {
		Status       entity.Status // empty = all roots, grouped by status
		Search       string
		SearchFields []string
		Page         int
		Limit        int
		Paginated    bool
	}

	ListResult struct {
		Items       []*entity.Record `json:"items"`
		Page        int              `json:"page"`
		Limit       int              `json:"limit"`
		TotalItems  int              `json:"totalItems"`
		TotalPages  int              `json:"totalPages"`
		HasNextPage bool             `json:"hasNextPage"`
	}

	EndpointResult struct {
		URL    string `json:"-"`
		OK     bool   `json:"ok"`
		Status int    `json:"status"`
	}

	// DispatchResult aggregates the two downstream acknowledgements. Success
	// means at least one endpoint took the update, not that both agree.
	DispatchResult struct {
		Success   bool           `json:"success"`
		Primary   EndpointResult `json:"endpoint1"`
		Secondary EndpointResult `json:"endpoint2"`
	}
)
