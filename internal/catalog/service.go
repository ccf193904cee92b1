package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jasurbekn/narxly/internal/metrics"
	domain "github.com/jasurbekn/narxly/pkg/types"
)

const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 100
)

// snapshot is one immutable catalog build result.
type snapshot struct {
	products []domain.Product
	byID     map[string]*domain.Product
	builtAt  time.Time
}

// Service serves queries against the latest catalog snapshot and owns its
// refresh lifecycle. A failed rebuild keeps the previous snapshot serving;
// ingestion problems never surface as request failures.
type Service struct {
	builder *Builder
	log     *slog.Logger

	// limiter throttles request-triggered rebuilds so a burst of traffic
	// against an empty snapshot cannot stampede the filesystem.
	limiter *rate.Limiter

	mu   sync.RWMutex
	snap *snapshot
}

// NewService creates a Service around the given builder. rebuildPerMinute
// caps on-demand rebuilds; zero disables them (scheduled refreshes only).
func NewService(builder *Builder, rebuildPerMinute float64, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	limiter := rate.NewLimiter(rate.Limit(rebuildPerMinute/60), 1)
	if rebuildPerMinute <= 0 {
		// Zero burst as well, or the initial token would let one through.
		limiter = rate.NewLimiter(0, 0)
	}
	return &Service{
		builder: builder,
		log:     log,
		limiter: limiter,
	}
}

// Refresh rebuilds the catalog and swaps in the new snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	products, err := s.builder.Build(ctx)
	if err != nil {
		metrics.BuildFailuresTotal.Inc()
		return fmt.Errorf("building catalog: %w", err)
	}

	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	s.mu.Lock()
	s.snap = &snapshot{products: products, byID: byID, builtAt: time.Now()}
	s.mu.Unlock()

	return nil
}

// Ready reports whether a snapshot has been built.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap != nil
}

// BuiltAt returns when the current snapshot was built.
func (s *Service) BuiltAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return time.Time{}
	}
	return s.snap.builtAt
}

// current returns the live snapshot, triggering a rate-limited rebuild when
// none exists yet. Requests against an empty service get an empty catalog,
// never an error.
func (s *Service) current(ctx context.Context) *snapshot {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	if snap != nil {
		metrics.SnapshotAge.Set(time.Since(snap.builtAt).Seconds())
		return snap
	}

	if s.limiter.Allow() {
		if err := s.Refresh(ctx); err != nil {
			s.log.Error("on-demand rebuild failed", "error", err)
		}
		s.mu.RLock()
		snap = s.snap
		s.mu.RUnlock()
		if snap != nil {
			return snap
		}
	}

	return &snapshot{}
}

// ListQuery defines catalog list parameters.
type ListQuery struct {
	Page     int
	Limit    int
	Search   string // case-insensitive substring over name and category
	Category string // case-insensitive equality; "" and "all" match everything
}

// ListResult is one page of the catalog.
type ListResult struct {
	Products []domain.Product
	Total    int
	Page     int
	Limit    int
	HasMore  bool
}

// List returns a filtered, paginated page of the catalog.
func (s *Service) List(ctx context.Context, q ListQuery) ListResult {
	snap := s.current(ctx)

	page := q.Page
	if page < 1 {
		page = defaultPage
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	filtered := filter(snap.products, q)

	total := len(filtered)
	skip := (page - 1) * limit

	var pageSlice []domain.Product
	if skip < total {
		end := min(skip+limit, total)
		pageSlice = filtered[skip:end]
	}

	return ListResult{
		Products: pageSlice,
		Total:    total,
		Page:     page,
		Limit:    limit,
		HasMore:  skip+limit < total,
	}
}

func filter(products []domain.Product, q ListQuery) []domain.Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	category := strings.ToLower(strings.TrimSpace(q.Category))

	if search == "" && (category == "" || category == "all") {
		return products
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(string(p.Category)), search) {
			continue
		}
		if category != "" && category != "all" &&
			!strings.EqualFold(string(p.Category), category) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// GetByID returns the product with the given stable id. The boolean is
// false when no product matches.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Product, bool) {
	snap := s.current(ctx)
	p, ok := snap.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return *p, true
}

// CategoryCount pairs a category with the number of products in it.
type CategoryCount struct {
	Category domain.Category `json:"category"`
	Count    int             `json:"count"`
}

// Categories returns per-category product counts, ordered by category name.
func (s *Service) Categories(ctx context.Context) []CategoryCount {
	snap := s.current(ctx)

	counts := make(map[domain.Category]int)
	for i := range snap.products {
		counts[snap.products[i].Category]++
	}

	result := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		result = append(result, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})
	return result
}
