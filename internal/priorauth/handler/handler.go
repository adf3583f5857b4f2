package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"priorauth/internal/platform/middleware"
	"priorauth/internal/priorauth"
	dErrors "priorauth/pkg/domain-errors"
	"priorauth/pkg/platform/httputil"
)

// Service defines the interface for pipeline operations.
type Service interface {
	Process(ctx context.Context, req priorauth.PriorAuthRequest) (*priorauth.Determination, error)
}

// Handler wires prior-auth endpoints to the pipeline service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a prior-auth handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts prior-auth endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/prior-auth", h.HandleSubmit)
	r.Get("/health", h.HandleHealth)
}

// HandleSubmit handles POST /prior-auth requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[PriorAuthRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	determination, err := h.service.Process(ctx, req.Domain())
	if err != nil {
		h.logger.ErrorContext(ctx, "prior auth processing failed",
			"request_id", requestID,
			"member_id", req.MemberID,
			"npi", req.NPI,
			"error", err,
		)
		// Callers get a generic failure regardless of which step broke.
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "prior authorization processing failed"))
		return
	}

	h.logger.InfoContext(ctx, "prior auth determined",
		"request_id", requestID,
		"member_id", req.MemberID,
		"npi", req.NPI,
		"decision", determination.Decision,
		"hard_stop", determination.HardStop,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromDetermination(determination))
}

// HandleHealth handles GET /health requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
