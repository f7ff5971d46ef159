package domain

import (
	"math"
	"time"
)

// MaxExpiryDays is the longest expiry window a time.Duration can hold
const MaxExpiryDays = int(math.MaxInt64 / int64(24*time.Hour))

// Status is derived from ExpiresAt and never trusted as stored.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Link represents a shortened URL
type Link struct {
	ID           string     `json:"id"`
	OriginalURL  string     `json:"originalUrl"`
	ShortCode    string     `json:"shortCode"`
	ShortURL     string     `json:"shortUrl"`
	Clicks       int64      `json:"clicks"`
	Status       Status     `json:"status"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
}

// IsExpiredAt reports whether the link has expired at now.
func (l *Link) IsExpiredAt(now time.Time) bool {
	return l.ExpiresAt.Before(now)
}

// RefreshStatus recomputes Status against now.
func (l *Link) RefreshStatus(now time.Time) {
	if l.IsExpiredAt(now) {
		l.Status = StatusExpired
		return
	}
	l.Status = StatusActive
}

// CreateRequest carries the input of a shorten call
type CreateRequest struct {
	OriginalURL  string `json:"originalUrl"`
	CustomAlias  string `json:"customAlias,omitempty"`
	CustomDomain string `json:"customDomain,omitempty"` // accepted, not used
	ExpiryDays   int    `json:"expiryDays,omitempty"`
}

// Sort keys accepted by ListParams.SortBy
const (
	SortByOriginalURL = "originalUrl"
	SortByShortCode   = "shortCode"
	SortByClicks      = "clicks"
	SortByStatus      = "status"
	SortByCreatedAt   = "createdAt"
	SortByExpiresAt   = "expiresAt"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"

	StatusAll = "all"
)

// ListParams filters and orders a listing. Zero values mean no filter,
// createdAt, desc.
type ListParams struct {
	Search    string
	Status    string
	SortBy    string
	SortOrder string
}

// Stats represents aggregated counts over the whole collection
type Stats struct {
	TotalUrls   int   `json:"totalUrls"`
	ActiveUrls  int   `json:"activeUrls"`
	ExpiredUrls int   `json:"expiredUrls"`
	TotalClicks int64 `json:"totalClicks"`
}
