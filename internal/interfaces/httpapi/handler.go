package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pnsgg/SmashRecap/internal/platform/logging"
	"github.com/pnsgg/SmashRecap/internal/usecase"
)

type Handler struct {
	recapService *usecase.RecapService
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(recapService *usecase.RecapService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		recapService: recapService,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetPlayerRecap(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerRecap")
	defer span.End()

	playerID, err := parseInt64PathValue(ctx, r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	year, err := parseIntPathValue(ctx, r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, recapRequest{PlayerID: playerID, Year: year}); err != nil {
		writeError(ctx, w, err)
		return
	}

	bundle, err := h.recapService.BuildRecap(ctx, playerID, year)
	if err != nil {
		h.logger.WarnContext(ctx, "build recap failed", "player_id", playerID, "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bundle)
}

func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchPlayers")
	defer span.End()

	req := searchPlayersRequest{
		GamerTag: strings.TrimSpace(r.URL.Query().Get("gamer_tag")),
	}
	if rawLimit := strings.TrimSpace(r.URL.Query().Get("limit")); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		req.Limit = limit
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	results, err := h.recapService.SearchPlayers(ctx, req.GamerTag, req.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "search players failed", "gamer_tag", req.GamerTag, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, results)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseInt64PathValue(ctx context.Context, r *http.Request, name string) (int64, error) {
	ctx, span := startSpan(ctx, "httpapi.parseInt64PathValue")
	defer span.End()

	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}

func parseIntPathValue(ctx context.Context, r *http.Request, name string) (int, error) {
	value, err := parseInt64PathValue(ctx, r, name)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

type recapRequest struct {
	PlayerID int64 `validate:"required,gt=0"`
	Year     int   `validate:"required,gte=2000,lte=2100"`
}

type searchPlayersRequest struct {
	GamerTag string `validate:"required,max=100"`
	Limit    int    `validate:"gte=0,lte=50"`
}
