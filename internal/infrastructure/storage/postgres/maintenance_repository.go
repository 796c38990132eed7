package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"sipacmirror/internal/domain/maintenance"
	syncdom "sipacmirror/internal/domain/sync"
	"sipacmirror/internal/infrastructure/storage/writeplan"
)

type MaintenanceRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewMaintenanceRepository(pool *pgxpool.Pool, log *slog.Logger) *MaintenanceRepository {
	return &MaintenanceRepository{
		pool: pool,
		log:  log.With("component", "maintenance_repository"),
	}
}

const maintenanceColumns = `id, numero, ano, status, descricao, divisao, usuario,
	       data_cadastro, requisicao_mae_id, atualizado_em`

func (r *MaintenanceRepository) FindByID(ctx context.Context, id int) (*maintenance.Requisition, error) {
	const query = `
		SELECT ` + maintenanceColumns + `
		FROM maintenance_requisitions
		WHERE id = $1`

	return r.findOne(ctx, query, id)
}

func (r *MaintenanceRepository) FindByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*maintenance.Requisition, error) {
	const query = `
		SELECT ` + maintenanceColumns + `
		FROM maintenance_requisitions
		WHERE numero = $1 AND ano = $2`

	return r.findOne(ctx, query, key.Numero, key.Ano)
}

func (r *MaintenanceRepository) findOne(ctx context.Context, query string, args ...interface{}) (*maintenance.Requisition, error) {
	req, err := r.scanRequisition(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, maintenance.ErrNotFound
		}
		r.log.Error("failed to get maintenance requisition", "error", err)
		return nil, fmt.Errorf("get maintenance requisition: %w", err)
	}

	if err := r.loadLinks(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Create writes the requisition and its material-requisition links in
// one transaction.
func (r *MaintenanceRepository) Create(ctx context.Context, req *maintenance.Requisition) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO maintenance_requisitions (id, numero, ano, status, descricao, divisao,
		                                      usuario, data_cadastro, requisicao_mae_id, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`

	_, err = tx.Exec(ctx, query,
		req.ID, req.Numero, req.Ano, req.Status, req.Descricao, req.Divisao,
		req.Usuario, req.DataCadastro, req.RequisicaoMaeID,
	)
	if err != nil {
		r.log.Error("failed to create maintenance requisition", "id", req.ID, "error", err)
		return fmt.Errorf("create maintenance requisition: %w", err)
	}

	if err := r.insertLinks(ctx, tx, req); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update rewrites the row and fully replaces the link set.
func (r *MaintenanceRepository) Update(ctx context.Context, req *maintenance.Requisition) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		UPDATE maintenance_requisitions
		SET numero = $1, ano = $2, status = $3, descricao = $4, divisao = $5,
		    usuario = $6, data_cadastro = $7, requisicao_mae_id = $8,
		    atualizado_em = NOW()
		WHERE id = $9`

	result, err := tx.Exec(ctx, query,
		req.Numero, req.Ano, req.Status, req.Descricao, req.Divisao,
		req.Usuario, req.DataCadastro, req.RequisicaoMaeID, req.ID,
	)
	if err != nil {
		r.log.Error("failed to update maintenance requisition", "id", req.ID, "error", err)
		return fmt.Errorf("update maintenance requisition: %w", err)
	}
	if result.RowsAffected() == 0 {
		return maintenance.ErrNotFound
	}

	for range writeplan.MaintenanceRequisition.FieldsWith(writeplan.ReplaceMany) {
		_, err = tx.Exec(ctx, `DELETE FROM maintenance_material_reqs WHERE maintenance_id = $1`, req.ID)
		if err != nil {
			return fmt.Errorf("delete requisition links: %w", err)
		}
	}
	if err := r.insertLinks(ctx, tx, req); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *MaintenanceRepository) CreateManySkipDuplicates(ctx context.Context, reqs []maintenance.Requisition) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	const query = `
		INSERT INTO maintenance_requisitions (id, numero, ano, status, descricao, divisao,
		                                      usuario, data_cadastro, requisicao_mae_id, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (id) DO NOTHING`

	for _, req := range reqs {
		batch.Queue(query,
			req.ID, req.Numero, req.Ano, req.Status, req.Descricao, req.Divisao,
			req.Usuario, req.DataCadastro, req.RequisicaoMaeID,
		)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for range reqs {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			r.log.Error("failed to batch create maintenance requisitions", "size", len(reqs), "error", err)
			return 0, fmt.Errorf("batch create maintenance requisitions: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}
	return inserted, nil
}

func (r *MaintenanceRepository) List(ctx context.Context, limit, offset int) ([]maintenance.Requisition, error) {
	const query = `
		SELECT ` + maintenanceColumns + `
		FROM maintenance_requisitions
		ORDER BY ano DESC, numero DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("failed to list maintenance requisitions", "error", err)
		return nil, fmt.Errorf("list maintenance requisitions: %w", err)
	}
	defer rows.Close()

	var reqs []maintenance.Requisition
	for rows.Next() {
		req, err := r.scanRequisition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan maintenance requisition: %w", err)
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func (r *MaintenanceRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM maintenance_requisitions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count maintenance requisitions: %w", err)
	}
	return count, nil
}

func (r *MaintenanceRepository) insertLinks(ctx context.Context, tx pgx.Tx, req *maintenance.Requisition) error {
	const query = `
		INSERT INTO maintenance_material_reqs (maintenance_id, material_req_id)
		VALUES ($1, $2)`

	for _, materialReqID := range req.MaterialReqIDs {
		if _, err := tx.Exec(ctx, query, req.ID, materialReqID); err != nil {
			r.log.Error("failed to insert requisition link",
				"maintenance_id", req.ID, "material_req_id", materialReqID, "error", err)
			return fmt.Errorf("insert requisition link: %w", err)
		}
	}
	return nil
}

func (r *MaintenanceRepository) loadLinks(ctx context.Context, req *maintenance.Requisition) error {
	const query = `
		SELECT material_req_id
		FROM maintenance_material_reqs
		WHERE maintenance_id = $1
		ORDER BY material_req_id`

	rows, err := r.pool.Query(ctx, query, req.ID)
	if err != nil {
		return fmt.Errorf("load requisition links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan requisition link: %w", err)
		}
		req.MaterialReqIDs = append(req.MaterialReqIDs, id)
	}
	return rows.Err()
}

func (r *MaintenanceRepository) scanRequisition(row pgx.Row) (*maintenance.Requisition, error) {
	var req maintenance.Requisition
	err := row.Scan(
		&req.ID, &req.Numero, &req.Ano, &req.Status, &req.Descricao, &req.Divisao,
		&req.Usuario, &req.DataCadastro, &req.RequisicaoMaeID, &req.AtualizadoEm,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
