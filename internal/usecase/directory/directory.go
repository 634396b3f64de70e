package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/enrollhq/enroll/internal/dto"
	"github.com/enrollhq/enroll/internal/entity"
	"github.com/enrollhq/enroll/internal/repo"
	"github.com/enrollhq/enroll/pkg/logger"
	"github.com/enrollhq/enroll/pkg/types/errs"
)

var defaultSearchFields = []string{"username", "nationalId", "name", "department", "government"}

// UseCase reconstructs entity collections from fresh directory scans. No
// caching: every call re-reads the roots, trading read cost for freshness.
type UseCase struct {
	store repo.RecordStore
	roots repo.Roots

	defaultLimit int
	maxLimit     int

	logger logger.Interface
}

func New(store repo.RecordStore, roots repo.Roots, defaultLimit, maxLimit int, l logger.Interface) *UseCase {
	return &UseCase{
		store:        store,
		roots:        roots,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       l,
	}
}

func (uc *UseCase) List(ctx context.Context, q dto.ListQuery, p entity.Principal) (*dto.ListResult, error) {
	root, ok := uc.roots.For(q.Status)
	if !ok {
		return nil, fmt.Errorf("UseCase - List: %w: no directory root for status %q", errs.ErrValidation, q.Status)
	}

	names, err := uc.store.List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("UseCase - List - uc.store.List: %w", err)
	}
	sort.Strings(names)

	page, limit := uc.normalizePage(q)

	// Fast path: no filtering applies, so the page can be sliced on the name
	// list before any metadata is read. Cost stays proportional to page size.
	if q.Search == "" && p.Elevated() {
		total := len(names)
		if q.Paginated {
			names = slicePage(names, page, limit)
		}

		items := uc.load(ctx, root, names)
		if !q.Paginated {
			return &dto.ListResult{Items: items, TotalItems: total}, nil
		}

		return paginatedResult(items, total, page, limit), nil
	}

	records := uc.load(ctx, root, names)
	records = uc.filterScope(records, p)
	records = uc.filterSearch(records, q)

	if !q.Paginated {
		return &dto.ListResult{Items: records, TotalItems: len(records)}, nil
	}

	total := len(records)
	paged := slicePage(records, page, limit)

	return paginatedResult(paged, total, page, limit), nil
}

// ListGrouped scans every root and returns the collections keyed by status.
func (uc *UseCase) ListGrouped(ctx context.Context, q dto.ListQuery, p entity.Principal) (map[entity.Status][]*entity.Record, error) {
	grouped := make(map[entity.Status][]*entity.Record, len(uc.roots.All()))

	for _, rs := range uc.roots.All() {
		names, err := uc.store.List(ctx, rs.Path)
		if err != nil {
			return nil, fmt.Errorf("UseCase - ListGrouped - uc.store.List: %w", err)
		}
		sort.Strings(names)

		records := uc.load(ctx, rs.Path, names)
		records = uc.filterScope(records, p)
		records = uc.filterSearch(records, q)

		grouped[rs.Status] = records
	}

	return grouped, nil
}

func (uc *UseCase) Image(ctx context.Context, status entity.Status, username string) ([]byte, error) {
	root, ok := uc.roots.For(status)
	if !ok {
		return nil, fmt.Errorf("UseCase - Image: %w: no directory root for status %q", errs.ErrValidation, status)
	}

	data, err := uc.store.ReadImage(ctx, root, username)
	if err != nil {
		return nil, fmt.Errorf("UseCase - Image - uc.store.ReadImage: %w", err)
	}

	return data, nil
}

func (uc *UseCase) load(ctx context.Context, root string, names []string) []*entity.Record {
	records := make([]*entity.Record, 0, len(names))

	for _, name := range names {
		rec, _, err := uc.store.Read(ctx, root, name)
		if err != nil {
			uc.logger.Warn("directory scan: skipping %q under %s: %v", name, root, err)
			continue
		}
		records = append(records, rec)
	}

	return records
}

func (uc *UseCase) filterScope(records []*entity.Record, p entity.Principal) []*entity.Record {
	if p.Elevated() {
		return records
	}

	visible := records[:0]
	for _, rec := range records {
		if inScope(rec, p.Governments) {
			visible = append(visible, rec)
		}
	}

	return visible
}

func (uc *UseCase) filterSearch(records []*entity.Record, q dto.ListQuery) []*entity.Record {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		return records
	}

	fields := q.SearchFields
	if len(fields) == 0 {
		fields = defaultSearchFields
	}

	matched := records[:0]
	for _, rec := range records {
		if matchesSearch(rec, fields, term) {
			matched = append(matched, rec)
		}
	}

	return matched
}

func matchesSearch(rec *entity.Record, fields []string, term string) bool {
	for _, field := range fields {
		var value string

		switch strings.ToLower(strings.TrimSpace(field)) {
		case "username":
			value = rec.Username
		case "nationalid":
			value = rec.NationalID
		case "name":
			value = rec.Name
		case "department":
			value = rec.Department
		case "government":
			value = rec.Government
		default:
			continue
		}

		if strings.Contains(strings.ToLower(value), term) {
			return true
		}
	}

	return false
}

func (uc *UseCase) normalizePage(q dto.ListQuery) (int, int) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	limit := q.Limit
	if limit < 1 {
		limit = uc.defaultLimit
	}
	if limit > uc.maxLimit {
		limit = uc.maxLimit
	}

	return page, limit
}

func slicePage[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}

	end := start + limit
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}

func paginatedResult(items []*entity.Record, total, page, limit int) *dto.ListResult {
	totalPages := (total + limit - 1) / limit

	return &dto.ListResult{
		Items:       items,
		Page:        page,
		Limit:       limit,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
	}
}
