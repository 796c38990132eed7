// Package scheduler runs unattended mirror passes on a cron expression.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/exp/slog"

	"sipacmirror/internal/config"
	"sipacmirror/internal/domain/contract"
	"sipacmirror/internal/domain/maintenance"
	"sipacmirror/internal/domain/material"
	"sipacmirror/internal/domain/materialreq"
	syncdom "sipacmirror/internal/domain/sync"
)

// lookback bounds the requisition date range of a scheduled pass. Runs
// overlap on purpose so a failed pass is retried by the next one;
// duplicate rows are skipped at write time.
const lookback = 7 * 24 * time.Hour

type Scheduler struct {
	cfg         *config.Config
	material    material.Servicer
	materialReq materialreq.Servicer
	maintenance maintenance.Servicer
	contract    contract.Servicer

	cron    *cron.Cron
	entryID cron.EntryID
	running atomic.Bool
	log     *slog.Logger
}

func New(
	cfg *config.Config,
	materialSvc material.Servicer,
	materialReqSvc materialreq.Servicer,
	maintenanceSvc maintenance.Servicer,
	contractSvc contract.Servicer,
	log *slog.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:         cfg,
		material:    materialSvc,
		materialReq: materialReqSvc,
		maintenance: maintenanceSvc,
		contract:    contractSvc,
		cron:        cron.New(),
		log:         log.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start() {
	if !s.cfg.Scheduler.Enabled {
		s.log.Info("scheduler disabled")
		return
	}

	id, err := s.cron.AddFunc(s.cfg.Scheduler.SyncCron, s.runPass)
	if err != nil {
		s.log.Error("failed to schedule sync pass", "spec", s.cfg.Scheduler.SyncCron, "error", err)
		return
	}

	s.entryID = id
	s.cron.Start()
	s.log.Info("scheduler started", "spec", s.cfg.Scheduler.SyncCron)
}

// Stop halts scheduling and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// runPass mirrors every entity family once. A tick that fires while
// the previous pass is still in flight is skipped, not queued.
func (s *Scheduler) runPass() {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Info("previous sync pass still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SIPAC.SyncAllTimeout)
	defer cancel()

	now := time.Now()
	from := now.Add(-lookback)

	s.report("materials", s.material.SyncAll(ctx, material.ListFilter{}))
	s.report("material_requisitions", s.materialReq.SyncAll(ctx, materialreq.Range{From: from, To: now}))
	s.report("maintenance_requisitions", s.maintenance.SyncAll(ctx, maintenance.Range{From: from, To: now}))
	s.report("contracts", s.contract.SyncAll(ctx, now.Year()))
}

func (s *Scheduler) report(family string, result *syncdom.Result) {
	s.log.Info("scheduled sync pass finished",
		"family", family,
		"run_id", result.RunID,
		"processed", result.TotalProcessed,
		"successful", result.Successful,
		"failed", result.Failed,
	)
}
