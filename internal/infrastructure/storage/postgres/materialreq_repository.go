package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"sipacmirror/internal/domain/materialreq"
	syncdom "sipacmirror/internal/domain/sync"
	"sipacmirror/internal/infrastructure/storage/writeplan"
)

type MaterialReqRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewMaterialReqRepository(pool *pgxpool.Pool, log *slog.Logger) *MaterialReqRepository {
	return &MaterialReqRepository{
		pool: pool,
		log:  log.With("component", "materialreq_repository"),
	}
}

const materialReqColumns = `id, numero, ano, status, convenio, grupo_material,
	       unidade_requisitante, unidade_custo, valor, atualizado_em`

func (r *MaterialReqRepository) FindByID(ctx context.Context, id int) (*materialreq.Requisition, error) {
	const query = `
		SELECT ` + materialReqColumns + `
		FROM material_requisitions
		WHERE id = $1`

	return r.findOne(ctx, query, id)
}

func (r *MaterialReqRepository) FindByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*materialreq.Requisition, error) {
	const query = `
		SELECT ` + materialReqColumns + `
		FROM material_requisitions
		WHERE numero = $1 AND ano = $2`

	return r.findOne(ctx, query, key.Numero, key.Ano)
}

func (r *MaterialReqRepository) findOne(ctx context.Context, query string, args ...interface{}) (*materialreq.Requisition, error) {
	req, err := r.scanRequisition(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, materialreq.ErrNotFound
		}
		r.log.Error("failed to get material requisition", "error", err)
		return nil, fmt.Errorf("get material requisition: %w", err)
	}

	if err := r.loadChildren(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Create writes the requisition and its child collections in one
// transaction; the whole write succeeds or fails atomically.
func (r *MaterialReqRepository) Create(ctx context.Context, req *materialreq.Requisition) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO material_requisitions (id, numero, ano, status, convenio, grupo_material,
		                                   unidade_requisitante, unidade_custo, valor, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`

	_, err = tx.Exec(ctx, query,
		req.ID, req.Numero, req.Ano, req.Status, req.Convenio, req.GrupoMaterial,
		req.UnidadeRequisitante, req.UnidadeCusto, req.Valor,
	)
	if err != nil {
		r.log.Error("failed to create material requisition", "id", req.ID, "error", err)
		return fmt.Errorf("create material requisition: %w", err)
	}

	if err := r.insertChildren(ctx, tx, req); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update rewrites the row and fully replaces every ReplaceMany child
// collection, since the remote detail payload is the source of truth.
func (r *MaterialReqRepository) Update(ctx context.Context, req *materialreq.Requisition) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		UPDATE material_requisitions
		SET numero = $1, ano = $2, status = $3, convenio = $4, grupo_material = $5,
		    unidade_requisitante = $6, unidade_custo = $7, valor = $8,
		    atualizado_em = NOW()
		WHERE id = $9`

	result, err := tx.Exec(ctx, query,
		req.Numero, req.Ano, req.Status, req.Convenio, req.GrupoMaterial,
		req.UnidadeRequisitante, req.UnidadeCusto, req.Valor, req.ID,
	)
	if err != nil {
		r.log.Error("failed to update material requisition", "id", req.ID, "error", err)
		return fmt.Errorf("update material requisition: %w", err)
	}
	if result.RowsAffected() == 0 {
		return materialreq.ErrNotFound
	}

	for _, field := range writeplan.MaterialRequisition.FieldsWith(writeplan.ReplaceMany) {
		if err := r.deleteChildren(ctx, tx, field, req.ID); err != nil {
			return err
		}
	}
	if err := r.insertChildren(ctx, tx, req); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *MaterialReqRepository) CreateManySkipDuplicates(ctx context.Context, reqs []materialreq.Requisition) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	const query = `
		INSERT INTO material_requisitions (id, numero, ano, status, convenio, grupo_material,
		                                   unidade_requisitante, unidade_custo, valor, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (id) DO NOTHING`

	for _, req := range reqs {
		batch.Queue(query,
			req.ID, req.Numero, req.Ano, req.Status, req.Convenio, req.GrupoMaterial,
			req.UnidadeRequisitante, req.UnidadeCusto, req.Valor,
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
			r.log.Error("failed to batch create material requisitions", "size", len(reqs), "error", err)
			return 0, fmt.Errorf("batch create material requisitions: %w", err)
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

func (r *MaterialReqRepository) List(ctx context.Context, limit, offset int) ([]materialreq.Requisition, error) {
	const query = `
		SELECT ` + materialReqColumns + `
		FROM material_requisitions
		ORDER BY ano DESC, numero DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("failed to list material requisitions", "error", err)
		return nil, fmt.Errorf("list material requisitions: %w", err)
	}
	defer rows.Close()

	var reqs []materialreq.Requisition
	for rows.Next() {
		req, err := r.scanRequisition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material requisition: %w", err)
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func (r *MaterialReqRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM material_requisitions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count material requisitions: %w", err)
	}
	return count, nil
}

func (r *MaterialReqRepository) insertChildren(ctx context.Context, tx pgx.Tx, req *materialreq.Requisition) error {
	const itemQuery = `
		INSERT INTO material_requisition_items (requisition_id, ordem, material_codigo, denominacao,
		                                        quantidade, valor, total, atendida, devolvida, em_compra, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, item := range req.Itens {
		_, err := tx.Exec(ctx, itemQuery,
			req.ID, item.Ordem, item.MaterialCodigo, item.Denominacao,
			item.Quantidade, item.Valor, item.Total, item.Atendida,
			item.Devolvida, item.EmCompra, item.Status,
		)
		if err != nil {
			r.log.Error("failed to insert requisition item",
				"requisition_id", req.ID, "ordem", item.Ordem, "error", err)
			return fmt.Errorf("insert requisition item: %w", err)
		}
	}

	const historyQuery = `
		INSERT INTO material_requisition_history (requisition_id, status, data, usuario, observacoes)
		VALUES ($1, $2, $3, $4, $5)`

	for _, h := range req.Historico {
		_, err := tx.Exec(ctx, historyQuery, req.ID, h.Status, h.Data, h.Usuario, h.Observacoes)
		if err != nil {
			r.log.Error("failed to insert requisition history",
				"requisition_id", req.ID, "error", err)
			return fmt.Errorf("insert requisition history: %w", err)
		}
	}

	return nil
}

func (r *MaterialReqRepository) deleteChildren(ctx context.Context, tx pgx.Tx, field string, requisitionID int) error {
	var table string
	switch field {
	case "itens":
		table = "material_requisition_items"
	case "historico":
		table = "material_requisition_history"
	default:
		return fmt.Errorf("unknown child collection %q", field)
	}

	_, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE requisition_id = $1`, table), requisitionID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", field, err)
	}
	return nil
}

func (r *MaterialReqRepository) loadChildren(ctx context.Context, req *materialreq.Requisition) error {
	const itemQuery = `
		SELECT ordem, material_codigo, denominacao, quantidade, valor, total,
		       atendida, devolvida, em_compra, status
		FROM material_requisition_items
		WHERE requisition_id = $1
		ORDER BY ordem`

	rows, err := r.pool.Query(ctx, itemQuery, req.ID)
	if err != nil {
		return fmt.Errorf("load requisition items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item materialreq.Item
		err := rows.Scan(
			&item.Ordem, &item.MaterialCodigo, &item.Denominacao,
			&item.Quantidade, &item.Valor, &item.Total,
			&item.Atendida, &item.Devolvida, &item.EmCompra, &item.Status,
		)
		if err != nil {
			return fmt.Errorf("scan requisition item: %w", err)
		}
		req.Itens = append(req.Itens, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const historyQuery = `
		SELECT status, data, usuario, observacoes
		FROM material_requisition_history
		WHERE requisition_id = $1
		ORDER BY data NULLS LAST, id`

	hrows, err := r.pool.Query(ctx, historyQuery, req.ID)
	if err != nil {
		return fmt.Errorf("load requisition history: %w", err)
	}
	defer hrows.Close()

	for hrows.Next() {
		var h materialreq.HistoryEntry
		if err := hrows.Scan(&h.Status, &h.Data, &h.Usuario, &h.Observacoes); err != nil {
			return fmt.Errorf("scan requisition history: %w", err)
		}
		req.Historico = append(req.Historico, h)
	}
	return hrows.Err()
}

func (r *MaterialReqRepository) scanRequisition(row pgx.Row) (*materialreq.Requisition, error) {
	var req materialreq.Requisition
	err := row.Scan(
		&req.ID, &req.Numero, &req.Ano, &req.Status, &req.Convenio, &req.GrupoMaterial,
		&req.UnidadeRequisitante, &req.UnidadeCusto, &req.Valor, &req.AtualizadoEm,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
