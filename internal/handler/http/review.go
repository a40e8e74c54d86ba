package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KodyPrograms/RevuMe/internal/service"
	"github.com/KodyPrograms/RevuMe/pkg/httputil"
	"github.com/KodyPrograms/RevuMe/pkg/middleware"
)

// maxReviewBody bounds the request body; photoDataUrl payloads can carry
// inline images.
const maxReviewBody = 10 << 20

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: svc, logger: logger}
}

// List handles GET /api/reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeUnauthenticated(w)
		return
	}

	reviews, err := h.service.List(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reviews)
}

// Create handles POST /api/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeUnauthenticated(w)
		return
	}

	patch, ok := decodePatch(w, r)
	if !ok {
		return
	}

	review, err := h.service.Create(r.Context(), userID, patch)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, review)
}

// Update handles PUT /api/reviews/{id}
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeUnauthenticated(w)
		return
	}
	id := chi.URLParam(r, "id")

	patch, ok := decodePatch(w, r)
	if !ok {
		return
	}

	review, err := h.service.Update(r.Context(), userID, id, patch)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /api/reviews/{id}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeUnauthenticated(w)
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// decodePatch reads a partial review payload from the request body. It writes
// the error response itself and reports success via the second return value.
func decodePatch(w http.ResponseWriter, r *http.Request) (service.Patch, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReviewBody)

	var patch service.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: &httputil.ErrorDetail{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return nil, false
	}

	return patch, true
}

func writeUnauthenticated(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{
		Error: &httputil.ErrorDetail{Code: "UNAUTHORIZED", Message: "authentication required"},
	})
}
