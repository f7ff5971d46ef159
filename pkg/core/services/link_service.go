package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/linkshrink/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshrink/pkg/core/shortcode"
	"github.com/wadjakorntonsri/linkshrink/pkg/core/urlcheck"
	"github.com/wadjakorntonsri/linkshrink/pkg/ports"
)

const (
	// DefaultExpiryDays applies when neither the request nor Config sets one.
	DefaultExpiryDays = 30

	maxAttempts = 100
	day         = 24 * time.Hour
)

// Config holds service settings
type Config struct {
	BaseURL           string // prefix of ShortURL, no trailing slash
	DefaultExpiryDays int
}

// LinkService owns the persisted link collection. Every operation loads
// the whole collection, changes it in memory and saves it back; mu keeps
// those cycles from interleaving inside one process.
type LinkService struct {
	repo   ports.LinkRepository
	config Config
	logger *slog.Logger

	mu       sync.Mutex
	now      func() time.Time
	generate func(length int) string
	newID    func() string
}

func NewLinkService(repo ports.LinkRepository, cfg Config) *LinkService {
	if cfg.DefaultExpiryDays <= 0 {
		cfg.DefaultExpiryDays = DefaultExpiryDays
	}
	if cfg.DefaultExpiryDays > domain.MaxExpiryDays {
		cfg.DefaultExpiryDays = domain.MaxExpiryDays
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &LinkService{
		repo:     repo,
		config:   cfg,
		logger:   slog.Default(),
		now:      time.Now,
		generate: shortcode.Generate,
		newID:    uuid.NewString,
	}
}

var _ ports.LinkService = (*LinkService)(nil)

func (s *LinkService) Create(ctx context.Context, req domain.CreateRequest) (*domain.Link, error) {
	if !urlcheck.IsValid(req.OriginalURL) {
		return nil, domain.ErrInvalidURL
	}
	if req.CustomAlias != "" && !shortcode.IsValidAlias(req.CustomAlias) {
		return nil, domain.ErrInvalidAlias
	}
	if req.ExpiryDays > domain.MaxExpiryDays {
		return nil, domain.ErrInvalidExpiry
	}
	if req.CustomDomain != "" {
		s.logger.Debug("custom domain ignored", slog.String("domain", req.CustomDomain))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	code := req.CustomAlias
	if code != "" {
		if shortcode.IsReserved(code) || indexByCode(links, code) >= 0 {
			return nil, domain.ErrAliasTaken
		}
	} else {
		code, err = s.uniqueCode(links)
		if err != nil {
			return nil, err
		}
	}

	expiryDays := req.ExpiryDays
	if expiryDays <= 0 {
		expiryDays = s.config.DefaultExpiryDays
	}

	now := s.now()
	link := domain.Link{
		ID:          s.newID(),
		OriginalURL: urlcheck.Normalize(req.OriginalURL),
		ShortCode:   code,
		ShortURL:    s.buildShortURL(code),
		Clicks:      0,
		Status:      domain.StatusActive,
		ExpiresAt:   now.Add(time.Duration(expiryDays) * day),
		CreatedAt:   now,
	}

	if err := s.save(ctx, append(links, link)); err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *LinkService) List(ctx context.Context, params domain.ListParams) ([]domain.Link, error) {
	s.mu.Lock()
	links, err := s.sweep(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Link, 0, len(links))
	search := strings.ToLower(params.Search)
	for _, l := range links {
		if search != "" &&
			!strings.Contains(strings.ToLower(l.OriginalURL), search) &&
			!strings.Contains(strings.ToLower(l.ShortCode), search) {
			continue
		}
		if params.Status != "" && params.Status != domain.StatusAll && string(l.Status) != params.Status {
			continue
		}
		filtered = append(filtered, l)
	}

	sortLinks(filtered, params.SortBy, params.SortOrder)
	return filtered, nil
}

func (s *LinkService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := indexByID(links, id)
	if i < 0 {
		return domain.ErrNotFound
	}
	return s.save(ctx, slices.Delete(links, i, i+1))
}

func (s *LinkService) Stats(ctx context.Context) (*domain.Stats, error) {
	s.mu.Lock()
	links, err := s.sweep(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{TotalUrls: len(links)}
	for _, l := range links {
		if l.Status == domain.StatusExpired {
			stats.ExpiredUrls++
		} else {
			stats.ActiveUrls++
		}
		stats.TotalClicks += l.Clicks
	}
	return stats, nil
}

// Resolve returns the destination for code and counts the click.
// Expired links are marked and rejected with domain.ErrExpired.
func (s *LinkService) Resolve(ctx context.Context, code string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	i := indexByCode(links, code)
	if i < 0 {
		return "", domain.ErrNotFound
	}

	now := s.now()
	link := &links[i]
	if link.IsExpiredAt(now) {
		link.Status = domain.StatusExpired
		if err := s.save(ctx, links); err != nil {
			return "", err
		}
		return "", domain.ErrExpired
	}

	link.Clicks++
	link.LastAccessed = &now
	if err := s.save(ctx, links); err != nil {
		return "", err
	}
	return link.OriginalURL, nil
}

// Export returns the stored collection as is, without a status sweep.
func (s *LinkService) Export(ctx context.Context) ([]domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Import appends links whose URL and short code are valid and whose code
// is not in use yet. It returns how many were added.
func (s *LinkService) Import(ctx context.Context, incoming []domain.Link) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	added := 0
	for _, l := range incoming {
		if !urlcheck.IsValid(l.OriginalURL) || !shortcode.IsValidAlias(l.ShortCode) {
			s.logger.Warn("skipping invalid link", slog.String("short_code", l.ShortCode))
			continue
		}
		if shortcode.IsReserved(l.ShortCode) || indexByCode(links, l.ShortCode) >= 0 {
			s.logger.Info("skipping existing code", slog.String("short_code", l.ShortCode))
			continue
		}

		l.OriginalURL = urlcheck.Normalize(l.OriginalURL)
		if l.ID == "" || indexByID(links, l.ID) >= 0 {
			l.ID = s.newID()
		}
		if l.ShortURL == "" {
			l.ShortURL = s.buildShortURL(l.ShortCode)
		}
		if l.CreatedAt.IsZero() {
			l.CreatedAt = now
		}
		if l.ExpiresAt.IsZero() {
			l.ExpiresAt = l.CreatedAt.Add(time.Duration(s.config.DefaultExpiryDays) * day)
		}
		if l.Clicks < 0 {
			l.Clicks = 0
		}
		l.RefreshStatus(now)

		links = append(links, l)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	if err := s.save(ctx, links); err != nil {
		return 0, err
	}
	return added, nil
}

// Sweep marks every link past its expiry as expired, saves the collection
// and returns how many links are expired.
func (s *LinkService) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := s.sweep(ctx)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, l := range links {
		if l.Status == domain.StatusExpired {
			expired++
		}
	}
	return expired, nil
}

// sweep refreshes every status and persists the result. Callers hold mu.
func (s *LinkService) sweep(ctx context.Context) ([]domain.Link, error) {
	links, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range links {
		links[i].RefreshStatus(now)
	}

	if err := s.save(ctx, links); err != nil {
		return nil, err
	}
	return links, nil
}

func (s *LinkService) load(ctx context.Context) ([]domain.Link, error) {
	links, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading links: %w", domain.ErrPersistence, err)
	}
	return links, nil
}

func (s *LinkService) save(ctx context.Context, links []domain.Link) error {
	if err := s.repo.Save(ctx, links); err != nil {
		return fmt.Errorf("%w: saving links: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (s *LinkService) uniqueCode(links []domain.Link) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := s.generate(shortcode.DefaultLength)
		if indexByCode(links, code) < 0 {
			return code, nil
		}
	}
	return "", domain.ErrTooManyCollisions
}

func (s *LinkService) buildShortURL(code string) string {
	if s.config.BaseURL == "" {
		return code
	}
	return s.config.BaseURL + "/" + code
}

func indexByCode(links []domain.Link, code string) int {
	return slices.IndexFunc(links, func(l domain.Link) bool { return l.ShortCode == code })
}

func indexByID(links []domain.Link, id string) int {
	return slices.IndexFunc(links, func(l domain.Link) bool { return l.ID == id })
}

// sortLinks orders links in place. Equal keys keep collection order in
// both directions.
func sortLinks(links []domain.Link, sortBy, order string) {
	compare := compareBy(sortBy)
	if order != domain.SortAsc {
		order = domain.SortDesc
	}
	desc := order == domain.SortDesc

	slices.SortStableFunc(links, func(a, b domain.Link) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

func compareBy(sortBy string) func(a, b domain.Link) int {
	switch sortBy {
	case domain.SortByOriginalURL:
		return func(a, b domain.Link) int { return cmp.Compare(a.OriginalURL, b.OriginalURL) }
	case domain.SortByShortCode:
		return func(a, b domain.Link) int { return cmp.Compare(a.ShortCode, b.ShortCode) }
	case domain.SortByClicks:
		return func(a, b domain.Link) int { return cmp.Compare(a.Clicks, b.Clicks) }
	case domain.SortByStatus:
		return func(a, b domain.Link) int { return cmp.Compare(a.Status, b.Status) }
	case domain.SortByExpiresAt:
		return func(a, b domain.Link) int { return a.ExpiresAt.Compare(b.ExpiresAt) }
	default:
		return func(a, b domain.Link) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}
