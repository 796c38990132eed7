package materialreq

import (
	"time"

	"github.com/shopspring/decimal"

	syncdom "sipacmirror/internal/domain/sync"
)

// Requisition is a mirrored SIPAC material requisition: a purchase
// request with its line items and status history. The id is assigned
// by the remote system and used as the upsert key.
type Requisition struct {
	ID                  int             `json:"id"`
	Numero              int             `json:"numero"`
	Ano                 int             `json:"ano"`
	Status              string          `json:"status"`
	Convenio            string          `json:"convenio,omitempty"`
	GrupoMaterial       string          `json:"grupo_material,omitempty"`
	UnidadeRequisitante string          `json:"unidade_requisitante,omitempty"`
	UnidadeCusto        string          `json:"unidade_custo,omitempty"`
	Valor               decimal.Decimal `json:"valor"`
	Itens               []Item          `json:"itens,omitempty"`
	Historico           []HistoryEntry  `json:"historico,omitempty"`
	AtualizadoEm        time.Time       `json:"atualizado_em"`
}

func (r *Requisition) Key() syncdom.NumeroAno {
	return syncdom.NumeroAno{Numero: r.Numero, Ano: r.Ano}
}

// Item is one requisition line. Quantities and money values are kept
// as fixed-precision decimals parsed from the localized wire strings.
type Item struct {
	Ordem          int             `json:"ordem"`
	MaterialCodigo string          `json:"material_codigo"`
	Denominacao    string          `json:"denominacao"`
	Quantidade     decimal.Decimal `json:"quantidade"`
	Valor          decimal.Decimal `json:"valor"`
	Total          decimal.Decimal `json:"total"`
	Atendida       decimal.Decimal `json:"atendida"`
	Devolvida      decimal.Decimal `json:"devolvida"`
	EmCompra       decimal.Decimal `json:"em_compra"`
	Status         string          `json:"status,omitempty"`
}

// HistoryEntry is one append-only status change. Data is nil when the
// remote date string did not parse.
type HistoryEntry struct {
	Status      string     `json:"status"`
	Data        *time.Time `json:"data,omitempty"`
	Usuario     string     `json:"usuario,omitempty"`
	Observacoes string     `json:"observacoes,omitempty"`
}
