package material

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material mirrors one SIPAC catalog material. The remote-assigned id
// is the primary key locally; it is never generated on our side.
type Material struct {
	ID            int             `json:"id"`
	Codigo        string          `json:"codigo"`
	Denominacao   string          `json:"denominacao"`
	Especificacao string          `json:"especificacao,omitempty"`
	UnidadeMedida string          `json:"unidade_medida,omitempty"`
	GrupoCodigo   string          `json:"grupo_codigo,omitempty"`
	GrupoNome     string          `json:"grupo_nome,omitempty"`
	Valor         decimal.Decimal `json:"valor"`
	Ativo         bool            `json:"ativo"`
	AtualizadoEm  time.Time       `json:"atualizado_em"`
}
