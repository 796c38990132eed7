package contract

import (
	"fmt"

	"github.com/shopspring/decimal"

	"sipacmirror/internal/sipac/parse"
)

// FromWire translates a remote contract into its normalized form.
// id, numero and ano are mandatory; value and date fields are optional.
func FromWire(w Wire) (*Contract, error) {
	if w.ID.Int() <= 0 {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidMapping)
	}
	if w.Numero.Int() <= 0 || w.Ano.Int() <= 0 {
		return nil, fmt.Errorf("%w: missing numero/ano", ErrInvalidMapping)
	}

	c := &Contract{
		ID:         w.ID.Int(),
		Numero:     w.Numero.Int(),
		Ano:        w.Ano.Int(),
		Objeto:     w.Objeto,
		Fornecedor: w.Fornecedor,
		Valor:      decimal.Zero,
	}

	if w.Valor != "" {
		valor, err := parse.Decimal(w.Valor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
		}
		c.Valor = valor
	}

	if inicio, ok := parse.Date(w.Inicio); ok {
		c.Inicio = &inicio
	}
	if fim, ok := parse.Date(w.Fim); ok {
		c.Fim = &fim
	}

	return c, nil
}
