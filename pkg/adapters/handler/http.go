package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/wadjakorntonsri/linkshrink/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshrink/pkg/ports"
)

const maxBodyBytes = 1 << 20

// Response is the envelope of every API reply
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse is the envelope of a failed API reply
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type HTTPHandler struct {
	service ports.LinkService
	logger  *slog.Logger
	rootURL string
}

// NewHTTPHandler wires the API to service. Failed redirects land on rootURL.
func NewHTTPHandler(service ports.LinkService, logger *slog.Logger, rootURL string) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if rootURL == "" {
		rootURL = "/"
	}
	return &HTTPHandler{service: service, logger: logger, rootURL: rootURL}
}

// Create Link
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req domain.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	link, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("link created",
		slog.String("id", link.ID),
		slog.String("short_code", link.ShortCode),
	)
	h.writeJSON(w, http.StatusCreated, link)
}

// List Links
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domain.ListParams{
		Search:    q.Get("search"),
		Status:    q.Get("status"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	links, err := h.service.List(r.Context(), params)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, links)
}

// Delete Link
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, nil)
}

// Stats returns collection-wide counters
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// Redirect to original URL, or back to the app root when the code cannot be used
func (h *HTTPHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("short_code")

	originalURL, err := h.service.Resolve(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrExpired):
			h.logger.Debug("redirect refused", slog.String("short_code", code), slog.Any("error", err))
		default:
			h.logger.Error("resolve failed", slog.String("short_code", code), slog.Any("error", err))
		}
		http.Redirect(w, r, h.rootURL, http.StatusFound)
		return
	}

	http.Redirect(w, r, originalURL, http.StatusFound)
}

// Home answers on the bare root
func (h *HTTPHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"service": "linkshrink"})
}

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

// handleServiceError maps service errors to HTTP responses
func (h *HTTPHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		h.writeError(w, http.StatusBadRequest, "Please provide a valid URL")
	case errors.Is(err, domain.ErrInvalidAlias):
		h.writeError(w, http.StatusBadRequest, "Custom alias must be 3-20 characters long and contain only letters, numbers, hyphens, and underscores")
	case errors.Is(err, domain.ErrInvalidExpiry):
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Expiry must be between 1 and %d days", domain.MaxExpiryDays))
	case errors.Is(err, domain.ErrAliasTaken):
		h.writeError(w, http.StatusConflict, "This custom alias is already taken")
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "URL not found")
	case errors.Is(err, domain.ErrPersistence):
		h.logger.Error("storage failure", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "Failed to save data")
	default:
		h.logger.Error("unexpected error", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Success: true, Data: data}); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: message}); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}
