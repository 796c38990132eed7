package materialreq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"sipacmirror/internal/domain/materialreq"
	syncdom "sipacmirror/internal/domain/sync"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service    materialreq.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service materialreq.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
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
		return nil, huma.Error500InternalServerError("Failed to list material requisitions")
	}
	return &listOutput{Body: *resp}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	r, err := h.service.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, materialreq.ErrNotFound) {
			return nil, huma.Error404NotFound("Material requisition not found")
		}
		h.log.Error("requisition lookup failed", "id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to get material requisition")
	}
	return &findOutput{Body: *r}, nil
}

func (h *Handler) sync(ctx context.Context, input *syncInput) (*syncOutput, error) {
	keys, err := parseKeys(input.Body.Requisicoes)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
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
		h.log.Info("background material requisition sync finished",
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

func parseKeys(raw []string) ([]syncdom.NumeroAno, error) {
	keys := make([]syncdom.NumeroAno, 0, len(raw))
	for _, s := range raw {
		key, err := syncdom.ParseNumeroAno(s)
		if err != nil {
			return nil, fmt.Errorf("invalid requisition key %q: expected numero/ano", s)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func parseRange(from, to string) (materialreq.Range, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return materialreq.Range{}, fmt.Errorf("invalid from date %q: expected YYYY-MM-DD", from)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return materialreq.Range{}, fmt.Errorf("invalid to date %q: expected YYYY-MM-DD", to)
	}
	if end.Before(start) {
		return materialreq.Range{}, errors.New("date range end precedes its start")
	}
	return materialreq.Range{From: start, To: end}, nil
}
