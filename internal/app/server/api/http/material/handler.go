package material

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"sipacmirror/internal/domain/material"
)

type Handler struct {
	service    material.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service material.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
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
		h.log.Error("material listing failed", "error", err)
		return nil, huma.Error500InternalServerError("Failed to list materials")
	}
	return &listOutput{Body: *resp}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	m, err := h.service.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, material.ErrNotFound) {
			return nil, huma.Error404NotFound("Material not found")
		}
		h.log.Error("material lookup failed", "id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to get material")
	}
	return &findOutput{Body: *m}, nil
}

func (h *Handler) sync(ctx context.Context, input *syncInput) (*syncOutput, error) {
	result := h.service.SyncMany(ctx, input.Body.Codigos)
	return &syncOutput{Body: *result}, nil
}

// syncAll answers immediately; the mirroring run continues on a
// background context so it survives the request, and its result is
// only logged.
func (h *Handler) syncAll(_ context.Context, input *syncAllInput) (*syncAllOutput, error) {
	runID := uuid.NewString()
	filter := material.ListFilter{
		GrupoCodigo: input.GrupoCodigo,
		Denominacao: input.Denominacao,
	}

	go func() {
		result := h.service.SyncAll(context.Background(), filter)
		h.log.Info("background material sync finished",
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
