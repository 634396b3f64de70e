package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/enrollhq/enroll/internal/entity"
	"github.com/enrollhq/enroll/internal/repo"
	"github.com/enrollhq/enroll/pkg/types/errs"
)

const infoFileName = "info.json"

// Directory names that may show up under a root through misconfiguration
// (a root nested inside another root) and must never be treated as entities.
var reservedNames = map[string]bool{
	"pending":  true,
	"approved": true,
	"rejected": true,
	"paused":   true,
	"blocked":  true,
}

// RecordStore keeps one directory per entity under each status root, with an
// info.json and a <username>_1.jpg inside.
type RecordStore struct {
	statusByRoot map[string]entity.Status
}

var _ repo.RecordStore = (*RecordStore)(nil)

func NewRecordStore(roots repo.Roots) *RecordStore {
	byRoot := make(map[string]entity.Status)
	for _, rs := range roots.All() {
		byRoot[filepath.Clean(rs.Path)] = rs.Status
	}

	return &RecordStore{statusByRoot: byRoot}
}

func ImageFileName(username string) string {
	return username + "_1.jpg"
}

func (s *RecordStore) ImagePath(root, username string) string {
	return filepath.Join(root, username, ImageFileName(username))
}

func (s *RecordStore) infoPath(root, username string) string {
	return filepath.Join(root, username, infoFileName)
}

func (s *RecordStore) Write(ctx context.Context, root, username string, rec *entity.Record, image []byte) (string, error) {
	dir := filepath.Join(root, username)

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", fmt.Errorf("RecordStore - Write - os.MkdirAll: %w", err)
	}

	if image != nil {
		err = os.WriteFile(filepath.Join(dir, ImageFileName(username)), image, 0o644)
		if err != nil {
			return "", fmt.Errorf("RecordStore - Write - os.WriteFile image: %w", err)
		}
		if rec.Image == "" {
			rec.Image = ImageFileName(username)
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("RecordStore - Write - json.Marshal: %w", err)
	}

	err = os.WriteFile(filepath.Join(dir, infoFileName), data, 0o644)
	if err != nil {
		return "", fmt.Errorf("RecordStore - Write - os.WriteFile info: %w", err)
	}

	return dir, nil
}

func (s *RecordStore) Read(ctx context.Context, root, username string) (*entity.Record, bool, error) {
	dir := filepath.Join(root, username)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, false, fmt.Errorf("RecordStore - Read - %q: %w", username, errs.ErrRecordNotFound)
	}

	rec := &entity.Record{
		Username: username,
		Status:   s.defaultStatus(root),
	}

	// Metadata is optional: a directory with an image but no info.json is a
	// valid (incomplete) state and must not fail readers.
	data, err := os.ReadFile(s.infoPath(root, username))
	if err == nil {
		if unmarshalErr := json.Unmarshal(data, rec); unmarshalErr != nil {
			rec = &entity.Record{Username: username, Status: s.defaultStatus(root)}
		}
	}
	if rec.Username == "" {
		rec.Username = username
	}
	if rec.Status == "" {
		rec.Status = s.defaultStatus(root)
	}

	imagePresent := false
	if _, statErr := os.Stat(s.ImagePath(root, username)); statErr == nil {
		imagePresent = true
		if rec.Image == "" {
			rec.Image = ImageFileName(username)
		}
	} else {
		rec.Image = ""
	}

	return rec, imagePresent, nil
}

func (s *RecordStore) ReadImage(ctx context.Context, root, username string) ([]byte, error) {
	data, err := os.ReadFile(s.ImagePath(root, username))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("RecordStore - ReadImage - %q: %w", username, errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("RecordStore - ReadImage - os.ReadFile: %w", err)
	}

	return data, nil
}

type moveStrategy struct {
	name string
	run  func(src, dst, username string) error
}

// Move relocates the entity directory as a single rename when the filesystem
// allows it, falling back to a recursive copy and then to copying only the
// known image and metadata files. The source is removed only after the
// destination is in place, so an interrupted tier stays retryable.
func (s *RecordStore) Move(ctx context.Context, srcRoot, destRoot, username string) error {
	src := filepath.Join(srcRoot, username)
	dst := filepath.Join(destRoot, username)

	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("RecordStore - Move - %q: %w", username, errs.ErrRecordNotFound)
	}

	err = os.MkdirAll(destRoot, 0o755)
	if err != nil {
		return fmt.Errorf("RecordStore - Move - os.MkdirAll: %w", err)
	}

	strategies := []moveStrategy{
		{"rename", s.renameMove},
		{"recursive copy", s.recursiveCopyMove},
		{"known files copy", s.knownFilesCopyMove},
	}

	var tierErrs []error
	for _, strategy := range strategies {
		err = strategy.run(src, dst, username)
		if err == nil {
			return nil
		}
		tierErrs = append(tierErrs, fmt.Errorf("%s: %w", strategy.name, err))
	}

	return fmt.Errorf("RecordStore - Move - all fallback tiers exhausted: %w", errors.Join(tierErrs...))
}

func (s *RecordStore) renameMove(src, dst, _ string) error {
	if _, err := os.Stat(dst); err == nil {
		if err := os.RemoveAll(dst); err != nil {
			return err
		}
	}

	return os.Rename(src, dst)
}

func (s *RecordStore) recursiveCopyMove(src, dst, _ string) error {
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, relErr := filepath.Rel(src, path)
		if relErr != nil {
			return relErr
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		return copyFile(path, target)
	})
	if err != nil {
		return err
	}

	return os.RemoveAll(src)
}

func (s *RecordStore) knownFilesCopyMove(src, dst, username string) error {
	err := os.MkdirAll(dst, 0o755)
	if err != nil {
		return err
	}

	copied := 0
	for _, name := range []string{ImageFileName(username), infoFileName} {
		from := filepath.Join(src, name)
		if _, statErr := os.Stat(from); statErr != nil {
			continue
		}
		if err := copyFile(from, filepath.Join(dst, name)); err != nil {
			return err
		}
		copied++
	}

	if copied == 0 {
		return fmt.Errorf("no known files under %s", src)
	}

	return os.RemoveAll(src)
}

func (s *RecordStore) Remove(ctx context.Context, root, username string) error {
	err := os.RemoveAll(filepath.Join(root, username))
	if err != nil {
		return fmt.Errorf("RecordStore - Remove - os.RemoveAll: %w", err)
	}

	return nil
}

func (s *RecordStore) Exists(root, username string) bool {
	info, err := os.Stat(filepath.Join(root, username))

	return err == nil && info.IsDir()
}

func (s *RecordStore) List(ctx context.Context, root string) ([]string, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("RecordStore - List - os.ReadDir: %w", err)
	}

	names := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		if !e.IsDir() || reservedNames[e.Name()] {
			continue
		}
		names = append(names, e.Name())
	}

	return names, nil
}

func (s *RecordStore) defaultStatus(root string) entity.Status {
	if status, ok := s.statusByRoot[filepath.Clean(root)]; ok {
		return status
	}

	return entity.StatusPending
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}

	return err
}
