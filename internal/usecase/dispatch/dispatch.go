package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/enrollhq/enroll/internal/dto"
	"github.com/enrollhq/enroll/pkg/logger"
	"github.com/enrollhq/enroll/pkg/types/errs"
)

// UseCase propagates a status change to two independent downstream servers.
// The call is a quorum of one: it succeeds when at least one endpoint
// acknowledges, and the lagging endpoint is reported, not retried.
type UseCase struct {
	client       *http.Client
	primaryURL   string
	secondaryURL string

	logger logger.Interface
}

func New(client *http.Client, primaryURL, secondaryURL string, l logger.Interface) *UseCase {
	return &UseCase{
		client:       client,
		primaryURL:   primaryURL,
		secondaryURL: secondaryURL,
		logger:       l,
	}
}

type statusUpdate struct {
	Username string `json:"username"`
	Status   string `json:"status"`
}

func (uc *UseCase) Dispatch(ctx context.Context, username, status string) (*dto.DispatchResult, error) {
	if username == "" {
		return nil, fmt.Errorf("UseCase - Dispatch: %w: username is required", errs.ErrValidation)
	}
	if status == "" {
		return nil, fmt.Errorf("UseCase - Dispatch: %w: status is required", errs.ErrValidation)
	}

	payload, err := json.Marshal(statusUpdate{Username: username, Status: status})
	if err != nil {
		return nil, fmt.Errorf("UseCase - Dispatch - json.Marshal: %w", err)
	}

	// Both updates are independent; fire them concurrently, no ordering.
	primaryCh := make(chan dto.EndpointResult, 1)
	secondaryCh := make(chan dto.EndpointResult, 1)

	go func() { primaryCh <- uc.post(ctx, uc.primaryURL, payload) }()
	go func() { secondaryCh <- uc.post(ctx, uc.secondaryURL, payload) }()

	result := &dto.DispatchResult{
		Primary:   <-primaryCh,
		Secondary: <-secondaryCh,
	}
	result.Success = result.Primary.OK || result.Secondary.OK

	if !result.Success {
		return result, fmt.Errorf("UseCase - Dispatch: %w: endpoint1=%d endpoint2=%d",
			errs.ErrAllEndpointsFailed, result.Primary.Status, result.Secondary.Status)
	}

	return result, nil
}

func (uc *UseCase) post(ctx context.Context, url string, payload []byte) dto.EndpointResult {
	result := dto.EndpointResult{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		uc.logger.Error(err, "UseCase - post - http.NewRequestWithContext")

		return result
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := uc.client.Do(req)
	if err != nil {
		uc.logger.Warn("status endpoint %s unreachable: %v", url, err)

		return result
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	result.Status = resp.StatusCode
	result.OK = resp.StatusCode >= 200 && resp.StatusCode < 300

	return result
}
