package maintenance

import (
	"time"

	"sipacmirror/internal/sipac/parse"
)

// Wire is the remote shape of a maintenance requisition. Referenced
// requisitions arrive as "numero/ano" composite keys, not ids.
type Wire struct {
	ID                   parse.FlexID `json:"id"`
	Numero               parse.FlexID `json:"numero"`
	Ano                  parse.FlexID `json:"ano"`
	Status               string       `json:"statusAtual"`
	Descricao            string       `json:"descricao"`
	Divisao              string       `json:"divisao"`
	Usuario              string       `json:"usuarioGravacao"`
	DataCadastro         string       `json:"dataCadastro"`
	RequisicaoMae        string       `json:"requisicaoMae"`
	RequisicoesMateriais []string     `json:"requisicoesMateriais"`
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
