package materialreq

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "material-requisitions-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/requisicoes/material",
		Summary:     "List mirrored material requisitions",
		Tags:        []string{"material-requisitions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "material-requisitions-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/requisicoes/material/{id}",
		Summary:     "Get one mirrored material requisition with items and history",
		Tags:        []string{"material-requisitions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) syncOp() huma.Operation {
	return huma.Operation{
		OperationID: "material-requisitions-sync",
		Method:      http.MethodPost,
		Path:        "/api/v1/requisicoes/material/sync",
		Summary:     "Synchronize material requisitions by numero/ano",
		Tags:        []string{"material-requisitions", "sync"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) syncAllOp() huma.Operation {
	return huma.Operation{
		OperationID:   "material-requisitions-sync-all",
		Method:        http.MethodPost,
		Path:          "/api/v1/requisicoes/material/sync/all",
		Summary:       "Mirror every material requisition registered in a date range",
		Description:   "Starts the synchronization in the background and returns immediately; the eventual result is logged.",
		Tags:          []string{"material-requisitions", "sync"},
		DefaultStatus: http.StatusAccepted,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}
