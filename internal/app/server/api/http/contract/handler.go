package contract

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"sipacmirror/internal/domain/contract"
	syncdom "sipacmirror/internal/domain/sync"
)

type Handler struct {
	service    contract.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service contract.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.photoOp(), h.photo)
	huma.Register(api, h.syncOp(), h.sync)
	huma.Register(api, h.syncAllOp(), h.syncAll)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	resp, err := h.service.List(ctx, input.Limit, input.Offset)
	if err != nil {
		h.log.Error("contract listing failed", "error", err)
		return nil, huma.Error500InternalServerError("Failed to list contracts")
	}
	return &listOutput{Body: *resp}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	c, err := h.service.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return nil, huma.Error404NotFound("Contract not found")
		}
		h.log.Error("contract lookup failed", "id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to get contract")
	}
	return &findOutput{Body: *c}, nil
}

func (h *Handler) photo(ctx context.Context, input *photoInput) (*photoOutput, error) {
	photo, err := h.service.Photo(ctx, input.ID)
	if err != nil {
		switch {
		case errors.Is(err, contract.ErrNotFound):
			return nil, huma.Error404NotFound("Contract not found")
		case errors.Is(err, contract.ErrPhotoMissing):
			return nil, huma.Error404NotFound("Contract has no photo")
		}
		h.log.Error("contract photo fetch failed", "id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to get contract photo")
	}

	return &photoOutput{
		ContentType: http.DetectContentType(photo),
		Body:        photo,
	}, nil
}

func (h *Handler) sync(ctx context.Context, input *syncInput) (*syncOutput, error) {
	keys := make([]syncdom.NumeroAno, 0, len(input.Body.Contratos))
	for _, s := range input.Body.Contratos {
		key, err := syncdom.ParseNumeroAno(s)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(
				fmt.Sprintf("invalid contract key %q: expected numero/ano", s))
		}
		keys = append(keys, key)
	}

	result := h.service.SyncMany(ctx, keys)
	return &syncOutput{Body: *result}, nil
}

// syncAll answers immediately; the mirroring run continues on a
// background context and its result is only logged.
func (h *Handler) syncAll(_ context.Context, input *syncAllInput) (*syncAllOutput, error) {
	runID := uuid.NewString()
	ano := input.Ano

	go func() {
		result := h.service.SyncAll(context.Background(), ano)
		h.log.Info("background contract sync finished",
			"request_id", runID,
			"run_id", result.RunID,
			"ano", ano,
			"processed", result.TotalProcessed,
			"successful", result.Successful,
			"failed", result.Failed,
		)
	}()

	return &syncAllOutput{
		Body: acceptedResponse{RunID: runID, Status: "accepted"},
	}, nil
}
