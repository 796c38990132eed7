package maintenance

import (
	"fmt"

	syncdom "sipacmirror/internal/domain/sync"
	"sipacmirror/internal/sipac/parse"
)

// FromWire translates a remote maintenance requisition and collects
// the composite keys it references. Malformed reference keys are
// dropped from Dependencies; only malformed mandatory fields (id,
// numero, ano) are mapping errors.
func FromWire(w Wire) (*Requisition, Dependencies, error) {
	var deps Dependencies

	if w.ID.Int() <= 0 {
		return nil, deps, fmt.Errorf("%w: missing id", ErrInvalidMapping)
	}
	if w.Numero.Int() <= 0 || w.Ano.Int() <= 0 {
		return nil, deps, fmt.Errorf("%w: missing numero/ano", ErrInvalidMapping)
	}

	r := &Requisition{
		ID:        w.ID.Int(),
		Numero:    w.Numero.Int(),
		Ano:       w.Ano.Int(),
		Status:    w.Status,
		Descricao: w.Descricao,
		Divisao:   w.Divisao,
		Usuario:   w.Usuario,
	}

	if data, ok := parse.Date(w.DataCadastro); ok {
		r.DataCadastro = &data
	}

	if w.RequisicaoMae != "" {
		if mae, err := syncdom.ParseNumeroAno(w.RequisicaoMae); err == nil {
			deps.Mae = &mae
		}
	}
	for _, raw := range w.RequisicoesMateriais {
		key, err := syncdom.ParseNumeroAno(raw)
		if err != nil {
			continue
		}
		deps.MaterialReqs = append(deps.MaterialReqs, key)
	}

	return r, deps, nil
}
