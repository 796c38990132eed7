package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"sipacmirror/internal/domain/contract"
	syncdom "sipacmirror/internal/domain/sync"
)

type ContractRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewContractRepository(pool *pgxpool.Pool, log *slog.Logger) *ContractRepository {
	return &ContractRepository{
		pool: pool,
		log:  log.With("component", "contract_repository"),
	}
}

const contractColumns = `id, numero, ano, objeto, fornecedor, valor, inicio, fim,
	       photo, photo_fetched_at, atualizado_em`

func (r *ContractRepository) FindByID(ctx context.Context, id int) (*contract.Contract, error) {
	const query = `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE id = $1`

	c, err := r.scanContract(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contract.ErrNotFound
		}
		r.log.Error("failed to get contract", "id", id, "error", err)
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

func (r *ContractRepository) FindByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*contract.Contract, error) {
	const query = `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE numero = $1 AND ano = $2`

	c, err := r.scanContract(r.pool.QueryRow(ctx, query, key.Numero, key.Ano))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contract.ErrNotFound
		}
		r.log.Error("failed to get contract", "key", key, "error", err)
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

func (r *ContractRepository) Create(ctx context.Context, c *contract.Contract) error {
	const query = `
		INSERT INTO contracts (id, numero, ano, objeto, fornecedor, valor, inicio, fim, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Numero, c.Ano, c.Objeto, c.Fornecedor, c.Valor, c.Inicio, c.Fim,
	)
	if err != nil {
		r.log.Error("failed to create contract", "id", c.ID, "error", err)
		return fmt.Errorf("create contract: %w", err)
	}
	return nil
}

// Update rewrites the mirrored columns; the cached photo is kept,
// only UpdatePhoto touches it.
func (r *ContractRepository) Update(ctx context.Context, c *contract.Contract) error {
	const query = `
		UPDATE contracts
		SET numero = $1, ano = $2, objeto = $3, fornecedor = $4, valor = $5,
		    inicio = $6, fim = $7, atualizado_em = NOW()
		WHERE id = $8`

	result, err := r.pool.Exec(ctx, query,
		c.Numero, c.Ano, c.Objeto, c.Fornecedor, c.Valor, c.Inicio, c.Fim, c.ID,
	)
	if err != nil {
		r.log.Error("failed to update contract", "id", c.ID, "error", err)
		return fmt.Errorf("update contract: %w", err)
	}
	if result.RowsAffected() == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *ContractRepository) CreateManySkipDuplicates(ctx context.Context, cs []contract.Contract) (int, error) {
	if len(cs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	const query = `
		INSERT INTO contracts (id, numero, ano, objeto, fornecedor, valor, inicio, fim, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO NOTHING`

	for _, c := range cs {
		batch.Queue(query, c.ID, c.Numero, c.Ano, c.Objeto, c.Fornecedor, c.Valor, c.Inicio, c.Fim)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for range cs {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			r.log.Error("failed to batch create contracts", "size", len(cs), "error", err)
			return 0, fmt.Errorf("batch create contracts: %w", err)
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

func (r *ContractRepository) UpdatePhoto(ctx context.Context, id int, photo []byte) error {
	const query = `
		UPDATE contracts
		SET photo = $1, photo_fetched_at = NOW()
		WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, photo, id)
	if err != nil {
		r.log.Error("failed to store contract photo", "id", id, "error", err)
		return fmt.Errorf("store contract photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *ContractRepository) List(ctx context.Context, limit, offset int) ([]contract.Contract, error) {
	const query = `
		SELECT ` + contractColumns + `
		FROM contracts
		ORDER BY ano DESC, numero DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("failed to list contracts", "error", err)
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var cs []contract.Contract
	for rows.Next() {
		c, err := r.scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		cs = append(cs, *c)
	}
	return cs, rows.Err()
}

func (r *ContractRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contracts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count contracts: %w", err)
	}
	return count, nil
}

func (r *ContractRepository) scanContract(row pgx.Row) (*contract.Contract, error) {
	var c contract.Contract
	err := row.Scan(
		&c.ID, &c.Numero, &c.Ano, &c.Objeto, &c.Fornecedor, &c.Valor,
		&c.Inicio, &c.Fim, &c.Photo, &c.PhotoFetchedAt, &c.AtualizadoEm,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
