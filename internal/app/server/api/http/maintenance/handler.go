package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"sipacmirror/internal/domain/maintenance"
	syncdom "sipacmirror/internal/domain/sync"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service    maintenance.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service maintenance.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.syncOp(), h.sync)
	huma.Register(api, h.syncAllOp(), h.syncAll)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	resp, err := h.service.List(ctx, input.Limit, input.Offset)
	if err != nil {
		h.log.Error("requisition listing failed", "error", err)
		return nil, huma.Error500InternalServerError("Failed to list maintenance requisitions")
	}
	return &listOutput{Body: *resp}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	r, err := h.service.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, maintenance.ErrNotFound) {
			return nil, huma.Error404NotFound("Maintenance requisition not found")
		}
		h.log.Error("requisition lookup failed", "id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to get maintenance requisition")
	}
	return &findOutput{Body: *r}, nil
}

func (h *Handler) sync(ctx context.Context, input *syncInput) (*syncOutput, error) {
	keys := make([]syncdom.NumeroAno, 0, len(input.Body.Requisicoes))
	for _, s := range input.Body.Requisicoes {
		key, err := syncdom.ParseNumeroAno(s)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(
				fmt.Sprintf("invalid requisition key %q: expected numero/ano", s))
		}
		keys = append(keys, key)
	}

	result := h.service.SyncMany(ctx, keys)
	return &syncOutput{Body: *result}, nil
}

// syncAll answers immediately; the mirroring run continues on a
// background context and its result is only logged.
func (h *Handler) syncAll(_ context.Context, input *syncAllInput) (*syncAllOutput, error) {
	rng, err := parseRange(input.From, input.To)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	runID := uuid.NewString()
	go func() {
		result := h.service.SyncAll(context.Background(), rng)
		h.log.Info("background maintenance requisition sync finished",
			"request_id", runID,
			"run_id", result.RunID,
			"processed", result.TotalProcessed,
			"successful", result.Successful,
			"failed", result.Failed,
		)
	}()

	return &syncAllOutput{
		Body: acceptedResponse{RunID: runID, Status: "accepted"},
	}, nil
}

func parseRange(from, to string) (maintenance.Range, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return maintenance.Range{}, fmt.Errorf("invalid from date %q: expected YYYY-MM-DD", from)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return maintenance.Range{}, fmt.Errorf("invalid to date %q: expected YYYY-MM-DD", to)
	}
	if end.Before(start) {
		return maintenance.Range{}, errors.New("date range end precedes its start")
	}
	return maintenance.Range{From: start, To: end}, nil
}
