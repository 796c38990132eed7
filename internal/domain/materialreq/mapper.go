package materialreq

import (
	"fmt"

	"github.com/shopspring/decimal"

	"sipacmirror/internal/sipac/parse"
)

// FromWire translates a remote requisition into its normalized form.
// id, numero and ano are mandatory; money and quantity fields are
// optional and default to zero. A malformed line item fails the whole
// requisition since items persist atomically with their parent.
func FromWire(w Wire) (*Requisition, error) {
	if w.ID.Int() <= 0 {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidMapping)
	}
	if w.Numero.Int() <= 0 || w.Ano.Int() <= 0 {
		return nil, fmt.Errorf("%w: missing numero/ano", ErrInvalidMapping)
	}

	r := &Requisition{
		ID:                  w.ID.Int(),
		Numero:              w.Numero.Int(),
		Ano:                 w.Ano.Int(),
		Status:              w.Status,
		Convenio:            w.Convenio,
		GrupoMaterial:       w.GrupoMaterial,
		UnidadeRequisitante: w.UnidadeRequisitante,
		UnidadeCusto:        w.UnidadeCusto,
		Valor:               decimal.Zero,
	}

	if w.Valor != "" {
		valor, err := parse.Decimal(w.Valor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
		}
		r.Valor = valor
	}

	for i, iw := range w.Itens {
		item, err := itemFromWire(iw)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidMapping, i+1, err)
		}
		r.Itens = append(r.Itens, *item)
	}

	for _, hw := range w.Historico {
		r.Historico = append(r.Historico, historyFromWire(hw))
	}

	return r, nil
}

func itemFromWire(w ItemWire) (*Item, error) {
	codigo, denominacao, ok := parse.CodeDescription(w.Material)
	if !ok {
		return nil, fmt.Errorf("malformed material %q", w.Material)
	}

	item := &Item{
		Ordem:          w.Ordem.Int(),
		MaterialCodigo: codigo,
		Denominacao:    denominacao,
		Status:         w.Status,
	}

	fields := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{w.Quantidade, &item.Quantidade},
		{w.Valor, &item.Valor},
		{w.Total, &item.Total},
		{w.Atendida, &item.Atendida},
		{w.Devolvida, &item.Devolvida},
		{w.EmCompra, &item.EmCompra},
	}
	for _, f := range fields {
		*f.dst = decimal.Zero
		if f.raw == "" {
			continue
		}
		d, err := parse.Decimal(f.raw)
		if err != nil {
			return nil, err
		}
		*f.dst = d
	}

	return item, nil
}

// historyFromWire never fails: an unparsable date becomes a nil Data,
// the status string is carried as-is.
func historyFromWire(w HistoryWire) HistoryEntry {
	h := HistoryEntry{
		Status:      w.Status,
		Usuario:     w.Usuario,
		Observacoes: w.Observacoes,
	}
	if data, ok := parse.Date(w.Data); ok {
		h.Data = &data
	}
	return h
}
