package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wechner/CoGs/internal/platform/logging"
	"github.com/wechner/CoGs/internal/usecase"
)

const (
	// boardSessionHeader names the client's private board cache slot.
	// Clients without one share the global slot.
	boardSessionHeader = "X-Board-Session"

	// preferredLeagueHeader carries the client's session league, used
	// to seed the no-filter baseline.
	preferredLeagueHeader = "X-Preferred-League"
)

type Handler struct {
	leaderboardService *usecase.LeaderboardService
	sessionService     *usecase.SessionService
	catalogService     *usecase.CatalogService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	leaderboardService *usecase.LeaderboardService,
	sessionService *usecase.SessionService,
	catalogService *usecase.CatalogService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leaderboardService: leaderboardService,
		sessionService:     sessionService,
		catalogService:     catalogService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
