package materialreq

import (
	"time"

	"sipacmirror/internal/sipac/parse"
)

// Wire is the remote shape of a material requisition. The listing
// endpoint returns it without itens/historico; the detail endpoint
// fills them in.
type Wire struct {
	ID                  parse.FlexID  `json:"id"`
	Numero              parse.FlexID  `json:"numero"`
	Ano                 parse.FlexID  `json:"ano"`
	Status              string        `json:"statusAtual"`
	Convenio            string        `json:"convenio"`
	GrupoMaterial       string        `json:"grupoMaterial"`
	UnidadeRequisitante string        `json:"nomeUnidadeRequisitante"`
	UnidadeCusto        string        `json:"nomeUnidadeCusto"`
	Valor               string        `json:"valorRequisicao"`
	Itens               []ItemWire    `json:"itens"`
	Historico           []HistoryWire `json:"historico"`
}

// ItemWire carries one line item. Material is the composite
// "302400029834 - PARAFUSO" code/description string.
type ItemWire struct {
	Ordem      parse.FlexID `json:"numeroItem"`
	Material   string       `json:"material"`
	Quantidade string       `json:"quantidade"`
	Valor      string       `json:"valor"`
	Total      string       `json:"total"`
	Atendida   string       `json:"quantidadeAtendida"`
	Devolvida  string       `json:"quantidadeDevolvida"`
	EmCompra   string       `json:"quantidadeEmCompra"`
	Status     string       `json:"status"`
}

// HistoryWire carries one status change; Data is DD/MM/YYYY.
type HistoryWire struct {
	Status      string `json:"status"`
	Data        string `json:"data"`
	Usuario     string `json:"usuario"`
	Observacoes string `json:"observacoes"`
}

// Range bounds a sync-all fetch by registration date.
type Range struct {
	From time.Time
	To   time.Time
}

type ListResponse struct {
	Requisicoes []Requisition `json:"requisicoes"`
	Total       int           `json:"total"`
}
