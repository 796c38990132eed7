package material

import (
	"fmt"

	"github.com/shopspring/decimal"

	"sipacmirror/internal/sipac/parse"
)

// FromWire translates a remote material into its normalized form.
// Optional fields that are absent or unparsable stay zero; malformed
// mandatory fields (id, codigo) are mapping errors.
func FromWire(w Wire) (*Material, error) {
	if w.ID.Int() <= 0 {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidMapping)
	}
	if w.Codigo == "" {
		return nil, fmt.Errorf("%w: missing codigo", ErrInvalidMapping)
	}

	m := &Material{
		ID:            w.ID.Int(),
		Codigo:        w.Codigo,
		Denominacao:   w.Denominacao,
		Especificacao: w.Especificacao,
		UnidadeMedida: w.UnidadeMedida,
		Valor:         decimal.Zero,
		Ativo:         w.Ativo,
	}

	if w.ValorEstimado != "" {
		valor, err := parse.Decimal(w.ValorEstimado)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
		}
		m.Valor = valor
	}

	if code, name, ok := parse.CodeDescription(w.GrupoMaterial); ok {
		m.GrupoCodigo = code
		m.GrupoNome = name
	}

	return m, nil
}
