//GET  /api/v1/health                                # liveness + database (public)
//GET  /api/v1/materiais                             # mirrored materials (public)
//GET  /api/v1/materiais/{id}
//POST /api/v1/materiais/sync                        # (token)
//POST /api/v1/materiais/sync/all                    # background run (token)
//GET  /api/v1/requisicoes/material[/{id}]
//POST /api/v1/requisicoes/material/sync[/all]       # (token)
//GET  /api/v1/requisicoes/manutencao[/{id}]
//POST /api/v1/requisicoes/manutencao/sync[/all]     # (token)
//GET  /api/v1/contratos[/{id}], /contratos/{id}/foto
//POST /api/v1/contratos/sync[/all]                  # (token)

package api

import (
	contractAPI "sipacmirror/internal/app/server/api/http/contract"
	healthAPI "sipacmirror/internal/app/server/api/http/health"
	maintenanceAPI "sipacmirror/internal/app/server/api/http/maintenance"
	materialAPI "sipacmirror/internal/app/server/api/http/material"
	materialreqAPI "sipacmirror/internal/app/server/api/http/materialreq"
	"sipacmirror/internal/app/server/api/http/middleware"
	"sipacmirror/internal/app/server/api/http/middleware/auth"
	"sipacmirror/internal/app/server/api/http/middleware/logger"
	"sipacmirror/internal/config"
	"sipacmirror/internal/domain/contract"
	"sipacmirror/internal/domain/maintenance"
	"sipacmirror/internal/domain/material"
	"sipacmirror/internal/domain/materialreq"
	"sipacmirror/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

// Services collects the domain services the HTTP layer exposes. They
// are built in main, where the remote clients live.
type Services struct {
	Material    material.Servicer
	MaterialReq materialreq.Servicer
	Maintenance maintenance.Servicer
	Contract    contract.Servicer
}

type Handlers struct {
	Health      *healthAPI.Handler
	Material    *materialAPI.Handler
	MaterialReq *materialreqAPI.Handler
	Maintenance *maintenanceAPI.Handler
	Contract    *contractAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(storage *postgres.Storage, cfg *config.Config, services Services, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("SIPAC Mirror API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h := handlers(storage, cfg, services, log)
	h.Health.SetupRoutes(API)
	h.Material.SetupRoutes(API)
	h.MaterialReq.SetupRoutes(API)
	h.Maintenance.SetupRoutes(API)
	h.Contract.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, cfg *config.Config, services Services, log *slog.Logger) *Handlers {
	authMW := auth.New(cfg.Server.APIToken, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(storage, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	materialHandler := materialAPI.NewHandler(services.Material, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	materialReqHandler := materialreqAPI.NewHandler(services.MaterialReq, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	maintenanceHandler := maintenanceAPI.NewHandler(services.Maintenance, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	contractHandler := contractAPI.NewHandler(services.Contract, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:      healthHandler,
		Material:    materialHandler,
		MaterialReq: materialReqHandler,
		Maintenance: maintenanceHandler,
		Contract:    contractHandler,
	}
}
