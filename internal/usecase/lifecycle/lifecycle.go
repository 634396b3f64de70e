package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/enrollhq/enroll/internal/dto"
	"github.com/enrollhq/enroll/internal/entity"
	"github.com/enrollhq/enroll/internal/infrastructure"
	"github.com/enrollhq/enroll/internal/repo"
	"github.com/enrollhq/enroll/pkg/logger"
	"github.com/enrollhq/enroll/pkg/types/errs"
	"github.com/google/uuid"
)

// UseCase is the state-transition engine. Every transition runs under a
// per-username mutex so two concurrent transitions cannot leave the entity
// resident in two roots at once.
type UseCase struct {
	store      repo.RecordStore
	roots      repo.Roots
	normalizer infrastructure.ImageNormalizer
	events     infrastructure.EventsSender // nil disables the event stream

	logger logger.Interface
	locks  keyedMutex
}

func New(
	store repo.RecordStore,
	roots repo.Roots,
	normalizer infrastructure.ImageNormalizer,
	events infrastructure.EventsSender,
	l logger.Interface,
) *UseCase {
	return &UseCase{
		store:      store,
		roots:      roots,
		normalizer: normalizer,
		events:     events,
		logger:     l,
	}
}

func (uc *UseCase) Apply(ctx context.Context, sub dto.Submission) (*dto.TransitionResult, error) {
	if sub.Username == "" {
		return nil, fmt.Errorf("UseCase - Apply: %w: username is required", errs.ErrValidation)
	}

	unlock := uc.locks.lock(sub.Username)
	defer unlock()

	var (
		result *dto.TransitionResult
		err    error
	)

	switch sub.Action {
	case entity.ActionSubmit:
		result, err = uc.submit(ctx, sub)
	case entity.ActionApprove:
		result, err = uc.approve(ctx, sub)
	case entity.ActionReject:
		result, err = uc.reject(ctx, sub)
	case entity.ActionPause:
		result, err = uc.pause(ctx, sub)
	case entity.ActionBlock:
		result, err = uc.block(ctx, sub)
	default:
		return nil, fmt.Errorf("UseCase - Apply: %w: %q", errs.ErrUnknownAction, sub.Action)
	}

	if err != nil {
		return nil, err
	}

	uc.emit(ctx, sub.Username, sub.Action)

	return result, nil
}

// submit is an override, not a merge: any prior directory for the username is
// removed from every root before the fresh pending directory is written.
func (uc *UseCase) submit(ctx context.Context, sub dto.Submission) (*dto.TransitionResult, error) {
	if len(sub.ImageData) == 0 {
		return nil, fmt.Errorf("UseCase - submit: %w: image data is required", errs.ErrValidation)
	}

	normalized, err := uc.normalizer.Normalize(ctx, sub.ImageData)
	if err != nil {
		return nil, fmt.Errorf("UseCase - submit - uc.normalizer.Normalize: %w", err)
	}

	for _, rs := range uc.roots.All() {
		if removeErr := uc.store.Remove(ctx, rs.Path, sub.Username); removeErr != nil {
			return nil, fmt.Errorf("UseCase - submit - uc.store.Remove: %w", removeErr)
		}
	}

	now := time.Now()
	rec := &entity.Record{
		Username:   sub.Username,
		NationalID: sub.NationalID,
		Name:       sub.Name,
		Department: sub.Department,
		Government: sub.Government,
		Status:     entity.StatusPending,
		CreatedAt:  &now,
	}

	path, err := uc.store.Write(ctx, uc.roots.Pending, sub.Username, rec, normalized)
	if err != nil {
		return nil, fmt.Errorf("UseCase - submit - uc.store.Write: %w", err)
	}

	return &dto.TransitionResult{Record: rec, SavedPath: path}, nil
}

func (uc *UseCase) approve(ctx context.Context, sub dto.Submission) (*dto.TransitionResult, error) {
	rec, _, err := uc.store.Read(ctx, uc.roots.Pending, sub.Username)
	if err != nil {
		return nil, fmt.Errorf("UseCase - approve: %w: no pending submission for %q",
			errs.ErrRecordNotFound, sub.Username)
	}

	// A pending directory without an image is a valid incomplete state.
	image, err := uc.store.ReadImage(ctx, uc.roots.Pending, sub.Username)
	if err != nil {
		if !errors.Is(err, errs.ErrRecordNotFound) {
			return nil, fmt.Errorf("UseCase - approve - uc.store.ReadImage: %w", err)
		}
		uc.logger.Warn("approve: pending entry %q has no image", sub.Username)
		image = nil
	}

	rec.Merge(&entity.Record{
		NationalID: sub.NationalID,
		Name:       sub.Name,
		Department: sub.Department,
		Government: sub.Government,
	})

	now := time.Now()
	rec.Status = entity.StatusApproved
	rec.ApprovedAt = &now

	path, err := uc.store.Write(ctx, uc.roots.Approved, sub.Username, rec, image)
	if err != nil {
		return nil, fmt.Errorf("UseCase - approve - uc.store.Write: %w", err)
	}

	err = uc.store.Remove(ctx, uc.roots.Pending, sub.Username)
	if err != nil {
		return nil, fmt.Errorf("UseCase - approve - uc.store.Remove: %w", err)
	}

	return &dto.TransitionResult{Record: rec, SavedPath: path}, nil
}

// reject prefers the approved directory as source and falls back to pending.
func (uc *UseCase) reject(ctx context.Context, sub dto.Submission) (*dto.TransitionResult, error) {
	var srcRoot string
	switch {
	case uc.store.Exists(uc.roots.Approved, sub.Username):
		srcRoot = uc.roots.Approved
	case uc.store.Exists(uc.roots.Pending, sub.Username):
		srcRoot = uc.roots.Pending
	default:
		return nil, fmt.Errorf("UseCase - reject: %w: no approved or pending entry for %q",
			errs.ErrRecordNotFound, sub.Username)
	}

	err := uc.store.Move(ctx, srcRoot, uc.roots.Rejected, sub.Username)
	if err != nil {
		return nil, fmt.Errorf("UseCase - reject - uc.store.Move: %w", err)
	}

	rec, _, err := uc.store.Read(ctx, uc.roots.Rejected, sub.Username)
	if err != nil {
		return nil, fmt.Errorf("UseCase - reject - uc.store.Read: %w", err)
	}

	now := time.Now()
	rec.Status = entity.StatusRejected
	rec.RejectedAt = &now

	path, err := uc.store.Write(ctx, uc.roots.Rejected, sub.Username, rec, nil)
	if err != nil {
		return nil, fmt.Errorf("UseCase - reject - uc.store.Write: %w", err)
	}

	return &dto.TransitionResult{Record: rec, SavedPath: path}, nil
}

// pause copies into the paused root; the approved directory stays in place so
// the entity remains available while paused.
func (uc *UseCase) pause(ctx context.Context, sub dto.Submission) (*dto.TransitionResult, error) {
	rec, _, err := uc.store.Read(ctx, uc.roots.Approved, sub.Username)
	if err != nil {
		return nil, fmt.Errorf("UseCase - pause: %w: no approved entry for %q",
			errs.ErrRecordNotFound, sub.Username)
	}

	image, err := uc.store.ReadImage(ctx, uc.roots.Approved, sub.Username)
	if err != nil {
		if !errors.Is(err, errs.ErrRecordNotFound) {
			return nil, fmt.Errorf("UseCase - pause - uc.store.ReadImage: %w", err)
		}
		uc.logger.Warn("pause: approved entry %q has no image", sub.Username)
		image = nil
	}

	now := time.Now()
	rec.Status = entity.StatusPaused
	rec.PausedAt = &now

	path, err := uc.store.Write(ctx, uc.roots.Paused, sub.Username, rec, image)
	if err != nil {
		return nil, fmt.Errorf("UseCase - pause - uc.store.Write: %w", err)
	}

	return &dto.TransitionResult{Record: rec, SavedPath: path}, nil
}

// block touches no status root: the blocked state lives in a downstream
// runtime collaborator, reached through the status dispatcher by the caller.
func (uc *UseCase) block(ctx context.Context, sub dto.Submission) (*dto.TransitionResult, error) {
	rec := &entity.Record{
		Username: sub.Username,
		Status:   entity.StatusBlocked,
	}

	return &dto.TransitionResult{Record: rec}, nil
}

// Delete removes the approved-root entity. Admin action, true deletion.
func (uc *UseCase) Delete(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("UseCase - Delete: %w: username is required", errs.ErrValidation)
	}

	unlock := uc.locks.lock(username)
	defer unlock()

	if !uc.store.Exists(uc.roots.Approved, username) {
		return fmt.Errorf("UseCase - Delete: %w: no approved entry for %q", errs.ErrRecordNotFound, username)
	}

	err := uc.store.Remove(ctx, uc.roots.Approved, username)
	if err != nil {
		return fmt.Errorf("UseCase - Delete - uc.store.Remove: %w", err)
	}

	return nil
}

// emit is best-effort: a transition never fails because the event stream is down.
func (uc *UseCase) emit(ctx context.Context, username string, action entity.Action) {
	if uc.events == nil {
		return
	}

	event := &entity.TransitionEvent{
		ID:         uuid.New(),
		Username:   username,
		Action:     action,
		Status:     action.Target(),
		OccurredAt: time.Now(),
	}

	err := uc.events.SendTransition(ctx, event)
	if err != nil {
		uc.logger.Error(err, "UseCase - emit - uc.events.SendTransition")
	}
}
