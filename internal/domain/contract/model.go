package contract

import (
	"time"

	"github.com/shopspring/decimal"

	syncdom "sipacmirror/internal/domain/sync"
)

// Contract is a mirrored SIPAC contract. The signed-document photo is
// fetched lazily through the scrape gateway and cached locally.
type Contract struct {
	ID             int             `json:"id"`
	Numero         int             `json:"numero"`
	Ano            int             `json:"ano"`
	Objeto         string          `json:"objeto,omitempty"`
	Fornecedor     string          `json:"fornecedor,omitempty"`
	Valor          decimal.Decimal `json:"valor"`
	Inicio         *time.Time      `json:"inicio,omitempty"`
	Fim            *time.Time      `json:"fim,omitempty"`
	Photo          []byte          `json:"-"`
	PhotoFetchedAt *time.Time      `json:"photo_fetched_at,omitempty"`
	AtualizadoEm   time.Time       `json:"atualizado_em"`
}

func (c *Contract) Key() syncdom.NumeroAno {
	return syncdom.NumeroAno{Numero: c.Numero, Ano: c.Ano}
}
