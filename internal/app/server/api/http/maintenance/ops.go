package maintenance

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "maintenance-requisitions-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/requisicoes/manutencao",
		Summary:     "List mirrored maintenance requisitions",
		Tags:        []string{"maintenance-requisitions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "maintenance-requisitions-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/requisicoes/manutencao/{id}",
		Summary:     "Get one mirrored maintenance requisition",
		Tags:        []string{"maintenance-requisitions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) syncOp() huma.Operation {
	return huma.Operation{
		OperationID: "maintenance-requisitions-sync",
		Method:      http.MethodPost,
		Path:        "/api/v1/requisicoes/manutencao/sync",
		Summary:     "Synchronize maintenance requisitions by numero/ano",
		Description: "Referenced parent and material requisitions are mirrored first when missing.",
		Tags:        []string{"maintenance-requisitions", "sync"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) syncAllOp() huma.Operation {
	return huma.Operation{
		OperationID:   "maintenance-requisitions-sync-all",
		Method:        http.MethodPost,
		Path:          "/api/v1/requisicoes/manutencao/sync/all",
		Summary:       "Mirror every maintenance requisition registered in a date range",
		Description:   "Starts the synchronization in the background and returns immediately; the eventual result is logged.",
		Tags:          []string{"maintenance-requisitions", "sync"},
		DefaultStatus: http.StatusAccepted,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}
