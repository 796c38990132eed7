package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"sipacmirror/internal/domain/material"
)

type MaterialRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewMaterialRepository(pool *pgxpool.Pool, log *slog.Logger) *MaterialRepository {
	return &MaterialRepository{
		pool: pool,
		log:  log.With("component", "material_repository"),
	}
}

const materialColumns = `id, codigo, denominacao, especificacao, unidade_medida,
	       grupo_codigo, grupo_nome, valor, ativo, atualizado_em`

func (r *MaterialRepository) FindByID(ctx context.Context, id int) (*material.Material, error) {
	const query = `
		SELECT ` + materialColumns + `
		FROM materials
		WHERE id = $1`

	m, err := r.scanMaterial(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, material.ErrNotFound
		}
		r.log.Error("failed to get material", "id", id, "error", err)
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

func (r *MaterialRepository) FindByCodigo(ctx context.Context, codigo string) (*material.Material, error) {
	const query = `
		SELECT ` + materialColumns + `
		FROM materials
		WHERE codigo = $1`

	m, err := r.scanMaterial(r.pool.QueryRow(ctx, query, codigo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, material.ErrNotFound
		}
		r.log.Error("failed to get material by codigo", "codigo", codigo, "error", err)
		return nil, fmt.Errorf("get material by codigo: %w", err)
	}
	return m, nil
}

func (r *MaterialRepository) Create(ctx context.Context, m *material.Material) error {
	const query = `
		INSERT INTO materials (id, codigo, denominacao, especificacao, unidade_medida,
		                       grupo_codigo, grupo_nome, valor, ativo, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.Codigo, m.Denominacao, m.Especificacao, m.UnidadeMedida,
		m.GrupoCodigo, m.GrupoNome, m.Valor, m.Ativo,
	)
	if err != nil {
		r.log.Error("failed to create material", "id", m.ID, "error", err)
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

func (r *MaterialRepository) Update(ctx context.Context, m *material.Material) error {
	const query = `
		UPDATE materials
		SET codigo = $1, denominacao = $2, especificacao = $3, unidade_medida = $4,
		    grupo_codigo = $5, grupo_nome = $6, valor = $7, ativo = $8,
		    atualizado_em = NOW()
		WHERE id = $9`

	result, err := r.pool.Exec(ctx, query,
		m.Codigo, m.Denominacao, m.Especificacao, m.UnidadeMedida,
		m.GrupoCodigo, m.GrupoNome, m.Valor, m.Ativo, m.ID,
	)
	if err != nil {
		r.log.Error("failed to update material", "id", m.ID, "error", err)
		return fmt.Errorf("update material: %w", err)
	}
	if result.RowsAffected() == 0 {
		return material.ErrNotFound
	}
	return nil
}

func (r *MaterialRepository) CreateManySkipDuplicates(ctx context.Context, ms []material.Material) (int, error) {
	if len(ms) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO materials (id, codigo, denominacao, especificacao, unidade_medida,
		                       grupo_codigo, grupo_nome, valor, ativo, atualizado_em)
		VALUES `)

	args := make([]interface{}, 0, len(ms)*9)
	for i, m := range ms {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 9
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, NOW())",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		args = append(args,
			m.ID, m.Codigo, m.Denominacao, m.Especificacao, m.UnidadeMedida,
			m.GrupoCodigo, m.GrupoNome, m.Valor, m.Ativo,
		)
	}
	sb.WriteString(" ON CONFLICT (id) DO NOTHING")

	result, err := r.pool.Exec(ctx, sb.String(), args...)
	if err != nil {
		r.log.Error("failed to batch create materials", "size", len(ms), "error", err)
		return 0, fmt.Errorf("batch create materials: %w", err)
	}
	return int(result.RowsAffected()), nil
}

func (r *MaterialRepository) List(ctx context.Context, limit, offset int) ([]material.Material, error) {
	const query = `
		SELECT ` + materialColumns + `
		FROM materials
		ORDER BY codigo
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("failed to list materials", "error", err)
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var ms []material.Material
	for rows.Next() {
		m, err := r.scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		ms = append(ms, *m)
	}
	return ms, rows.Err()
}

func (r *MaterialRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM materials`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count materials: %w", err)
	}
	return count, nil
}

func (r *MaterialRepository) scanMaterial(row pgx.Row) (*material.Material, error) {
	var m material.Material
	err := row.Scan(
		&m.ID, &m.Codigo, &m.Denominacao, &m.Especificacao, &m.UnidadeMedida,
		&m.GrupoCodigo, &m.GrupoNome, &m.Valor, &m.Ativo, &m.AtualizadoEm,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
