package maintenance

import (
	"time"

	syncdom "sipacmirror/internal/domain/sync"
)

// Requisition is a mirrored SIPAC maintenance requisition. It may
// reference a parent requisition ("mae") and any number of material
// requisitions, both stored as local foreign keys once resolved.
type Requisition struct {
	ID              int        `json:"id"`
	Numero          int        `json:"numero"`
	Ano             int        `json:"ano"`
	Status          string     `json:"status"`
	Descricao       string     `json:"descricao,omitempty"`
	Divisao         string     `json:"divisao,omitempty"`
	Usuario         string     `json:"usuario,omitempty"`
	DataCadastro    *time.Time `json:"data_cadastro,omitempty"`
	RequisicaoMaeID *int       `json:"requisicao_mae_id,omitempty"`
	MaterialReqIDs  []int      `json:"material_req_ids,omitempty"`
	AtualizadoEm    time.Time  `json:"atualizado_em"`
}

func (r *Requisition) Key() syncdom.NumeroAno {
	return syncdom.NumeroAno{Numero: r.Numero, Ano: r.Ano}
}

// Dependencies are the composite keys a wire record references; they
// are resolved to local ids before the requisition is persisted.
type Dependencies struct {
	Mae          *syncdom.NumeroAno
	MaterialReqs []syncdom.NumeroAno
}
