package writeplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldsWith(t *testing.T) {
	assert.Equal(t, []string{"historico", "itens"}, MaterialRequisition.FieldsWith(ReplaceMany))
	assert.Equal(t, []string{"requisicao_mae"}, MaintenanceRequisition.FieldsWith(Connect))
	assert.Empty(t, Material.FieldsWith(ReplaceMany))
}

func TestRelations(t *testing.T) {
	assert.Equal(t, []string{"requisicao_mae", "requisicoes_materiais"}, MaintenanceRequisition.Relations())
	assert.Empty(t, Contract.Relations())
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "scalar", Scalar.String())
	assert.Equal(t, "replace_many", ReplaceMany.String())
}
