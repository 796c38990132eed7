package material

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "materials-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/materiais",
		Summary:     "List mirrored materials",
		Tags:        []string{"materials"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "materials-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/materiais/{id}",
		Summary:     "Get one mirrored material",
		Tags:        []string{"materials"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) syncOp() huma.Operation {
	return huma.Operation{
		OperationID: "materials-sync",
		Method:      http.MethodPost,
		Path:        "/api/v1/materiais/sync",
		Summary:     "Synchronize materials by catalog code",
		Tags:        []string{"materials", "sync"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) syncAllOp() huma.Operation {
	return huma.Operation{
		OperationID:   "materials-sync-all",
		Method:        http.MethodPost,
		Path:          "/api/v1/materiais/sync/all",
		Summary:       "Mirror the whole materials listing",
		Description:   "Starts the synchronization in the background and returns immediately; the eventual result is logged.",
		Tags:          []string{"materials", "sync"},
		DefaultStatus: http.StatusAccepted,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}
