package material

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWire(t *testing.T) {
	w := Wire{
		ID:            30240,
		Codigo:        "302400029834",
		Denominacao:   "PARAFUSO SEXTAVADO",
		Especificacao: "ACO INOX 1/4",
		UnidadeMedida: "UNIDADE",
		ValorEstimado: "R$ 1.234,56",
		GrupoMaterial: "3024 - MATERIAL DE CONSUMO",
		Ativo:         true,
	}

	m, err := FromWire(w)
	require.NoError(t, err)
	assert.Equal(t, 30240, m.ID)
	assert.Equal(t, "302400029834", m.Codigo)
	assert.Equal(t, "1234.56", m.Valor.String())
	assert.Equal(t, "3024", m.GrupoCodigo)
	assert.Equal(t, "MATERIAL DE CONSUMO", m.GrupoNome)
	assert.True(t, m.Ativo)
}

func TestFromWireOptionalFields(t *testing.T) {
	m, err := FromWire(Wire{ID: 1, Codigo: "100"})
	require.NoError(t, err)
	assert.True(t, m.Valor.IsZero())
	assert.Empty(t, m.GrupoCodigo)
}

func TestFromWireMappingErrors(t *testing.T) {
	_, err := FromWire(Wire{Codigo: "100"})
	assert.ErrorIs(t, err, ErrInvalidMapping)

	_, err = FromWire(Wire{ID: 1})
	assert.ErrorIs(t, err, ErrInvalidMapping)

	_, err = FromWire(Wire{ID: 1, Codigo: "100", ValorEstimado: "R$ abc"})
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func TestWireDecodesStringAndNumericIDs(t *testing.T) {
	var a, b Wire
	require.NoError(t, json.Unmarshal([]byte(`{"idMaterial": 7, "codigo": "1"}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"idMaterial": "7", "codigo": "1"}`), &b))
	assert.Equal(t, a.ID, b.ID)
}
