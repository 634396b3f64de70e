package repo

import (
	"context"

	"github.com/enrollhq/enroll/internal/entity"
)

type (
	// RecordStore is the directory-per-entity contract: one metadata file and
	// one image file per entity directory under a status root.
	RecordStore interface {
		// Write creates or overwrites the entity directory. A nil image leaves
		// any existing image file untouched. Returns the directory path.
		Write(ctx context.Context, root, username string, rec *entity.Record, image []byte) (string, error)
		// Read tolerates a missing metadata file (status defaulted from the
		// root) and reports whether the image file is present.
		Read(ctx context.Context, root, username string) (*entity.Record, bool, error)
		ReadImage(ctx context.Context, root, username string) ([]byte, error)
		// Move relocates the entity directory between roots, trying rename,
		// then recursive copy, then copying only the known files.
		Move(ctx context.Context, srcRoot, destRoot, username string) error
		Remove(ctx context.Context, root, username string) error
		Exists(root, username string) bool
		// List returns the immediate subdirectory names of a root, reserved
		// names excluded.
		List(ctx context.Context, root string) ([]string, error)
		ImagePath(root, username string) string
	}
)

// Roots maps each disk-backed status to its configured root directory.
type Roots struct {
	Pending  string
	Approved string
	Rejected string
	Paused   string
}

func (r Roots) For(s entity.Status) (string, bool) {
	switch s {
	case entity.StatusPending:
		return r.Pending, true
	case entity.StatusApproved:
		return r.Approved, true
	case entity.StatusRejected:
		return r.Rejected, true
	case entity.StatusPaused:
		return r.Paused, true
	case entity.StatusBlocked:
		return "", false
	}

	return "", false
}

// All lists the disk-backed roots in a stable order. Blocked has no root.
func (r Roots) All() []RootStatus {
	return []RootStatus{
		{entity.StatusPending, r.Pending},
		{entity.StatusApproved, r.Approved},
		{entity.StatusRejected, r.Rejected},
		{entity.StatusPaused, r.Paused},
	}
}

type RootStatus struct {
	Status entity.Status
	Path   string
}
