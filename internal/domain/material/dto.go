package material

import "sipacmirror/internal/sipac/parse"

// Wire is the shape one material arrives in from the SIPAC listing
// endpoint. Ids may come as numbers or strings; currency and group are
// localized strings normalized by the mapper.
type Wire struct {
	ID            parse.FlexID `json:"idMaterial"`
	Codigo        string       `json:"codigo"`
	Denominacao   string       `json:"denominacao"`
	Especificacao string       `json:"especificacao"`
	UnidadeMedida string       `json:"denominacaoUnidade"`
	ValorEstimado string       `json:"valorEstimado"`
	GrupoMaterial string       `json:"grupoMaterial"`
	Ativo         bool         `json:"ativo"`
}

// Page is one page of the paginated materials listing. The remote
// contract promises monotonically increasing pages up to TotalPaginas;
// the sync service caps iteration defensively anyway.
type Page struct {
	Pagina       int    `json:"pagina"`
	TotalPaginas int    `json:"totalPaginas"`
	Itens        []Wire `json:"itens"`
}

// ListFilter narrows the remote listing.
type ListFilter struct {
	GrupoCodigo string `json:"grupo_codigo,omitempty"`
	Denominacao string `json:"denominacao,omitempty"`
}

// ListResponse is the local read API payload.
type ListResponse struct {
	Materiais []Material `json:"materiais"`
	Total     int        `json:"total"`
}
