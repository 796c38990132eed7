package contract

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "contracts-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/contratos",
		Summary:     "List mirrored contracts",
		Tags:        []string{"contracts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "contracts-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/contratos/{id}",
		Summary:     "Get one mirrored contract",
		Tags:        []string{"contracts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) photoOp() huma.Operation {
	return huma.Operation{
		OperationID: "contracts-photo",
		Method:      http.MethodGet,
		Path:        "/api/v1/contratos/{id}/foto",
		Summary:     "Get the contract photo",
		Description: "Served from the local cache; fetched from the institutional portal on first access.",
		Tags:        []string{"contracts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) syncOp() huma.Operation {
	return huma.Operation{
		OperationID: "contracts-sync",
		Method:      http.MethodPost,
		Path:        "/api/v1/contratos/sync",
		Summary:     "Synchronize contracts by numero/ano",
		Tags:        []string{"contracts", "sync"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) syncAllOp() huma.Operation {
	return huma.Operation{
		OperationID:   "contracts-sync-all",
		Method:        http.MethodPost,
		Path:          "/api/v1/contratos/sync/all",
		Summary:       "Mirror every contract of a year",
		Description:   "Starts the synchronization in the background and returns immediately; the eventual result is logged.",
		Tags:          []string{"contracts", "sync"},
		DefaultStatus: http.StatusAccepted,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}
