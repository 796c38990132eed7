package contract

import "sipacmirror/internal/sipac/parse"

// Wire is the remote shape of a contract as the scrape gateway
// returns it.
type Wire struct {
	ID         parse.FlexID `json:"id"`
	Numero     parse.FlexID `json:"numero"`
	Ano        parse.FlexID `json:"ano"`
	Objeto     string       `json:"objeto"`
	Fornecedor string       `json:"nomeFornecedor"`
	Valor      string       `json:"valorContrato"`
	Inicio     string       `json:"dataInicio"`
	Fim        string       `json:"dataFim"`
}

type ListResponse struct {
	Contratos []Contract `json:"contratos"`
	Total     int        `json:"total"`
}
