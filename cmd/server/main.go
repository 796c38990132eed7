package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sipacmirror/internal/app/scheduler"
	"sipacmirror/internal/app/server/api"
	"sipacmirror/internal/config"
	"sipacmirror/internal/domain/contract"
	"sipacmirror/internal/domain/maintenance"
	"sipacmirror/internal/domain/material"
	"sipacmirror/internal/domain/materialreq"
	"sipacmirror/internal/infrastructure/storage/postgres"
	"sipacmirror/internal/sipac/client"
	"sipacmirror/internal/sipac/token"
	"sipacmirror/internal/sipac/transport"
	"sipacmirror/internal/utils/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	storage, err := postgres.New(cfg)
	if err != nil {
		log.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	tokens := token.NewManager(cfg.SIPAC, log)
	apiTransport := transport.NewAPIClient(cfg.SIPAC, tokens, log)
	scrapeTransport := transport.NewScrapeClient(cfg.SIPAC, log)

	materialClient := client.NewMaterialClient(apiTransport)
	materialReqClient := client.NewMaterialReqClient(apiTransport, cfg.SIPAC.SyncAllTimeout)
	maintenanceClient := client.NewMaintenanceClient(apiTransport, cfg.SIPAC.SyncAllTimeout)
	contractClient := client.NewContractClient(scrapeTransport, cfg.SIPAC.SyncAllTimeout)

	pool := storage.Pool()
	materialSvc := material.NewService(materialClient, postgres.NewMaterialRepository(pool, log), log)
	materialReqSvc := materialreq.NewService(materialReqClient, postgres.NewMaterialReqRepository(pool, log), materialSvc, log)
	maintenanceSvc := maintenance.NewService(maintenanceClient, postgres.NewMaintenanceRepository(pool, log), materialReqSvc, log)
	contractSvc := contract.NewService(contractClient, postgres.NewContractRepository(pool, log), log)

	mux := api.New(storage, cfg, api.Services{
		Material:    materialSvc,
		MaterialReq: materialReqSvc,
		Maintenance: maintenanceSvc,
		Contract:    contractSvc,
	}, log)

	sched := scheduler.New(cfg, materialSvc, materialReqSvc, maintenanceSvc, contractSvc, log)
	sched.Start()
	defer sched.Stop()

	server := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "address", cfg.Server.RunAddress, "env", cfg.Env)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
