// Package writeplan declares, per entity, how each persisted field is
// written: as a plain column, as a reference to an existing row, as a
// nested insert, or as a full-replacement child collection. The
// repositories consult these tables when building create and update
// statements, so the write shape of every entity is visible in one
// place instead of being derived from model metadata at runtime.
package writeplan

import "sort"

type Strategy int

const (
	// Scalar writes the field as a column on the entity's own row.
	Scalar Strategy = iota
	// Connect writes the field as a foreign key to an already-persisted
	// row; the referenced row is never created by this write.
	Connect
	// CreateNested inserts the child rows together with the parent, in
	// the same transaction; only used on create.
	CreateNested
	// ReplaceMany deletes every existing child row and reinserts the
	// incoming collection; the update counterpart of CreateNested.
	ReplaceMany
)

func (s Strategy) String() string {
	switch s {
	case Scalar:
		return "scalar"
	case Connect:
		return "connect"
	case CreateNested:
		return "create_nested"
	case ReplaceMany:
		return "replace_many"
	}
	return "unknown"
}

// Plan maps persisted field names to their write strategy.
type Plan map[string]Strategy

// FieldsWith returns the fields using the given strategy, sorted so
// the repositories touch child tables in a stable order.
func (p Plan) FieldsWith(s Strategy) []string {
	var fields []string
	for field, strategy := range p {
		if strategy == s {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

// Relations returns every non-scalar field, sorted.
func (p Plan) Relations() []string {
	var fields []string
	for field, strategy := range p {
		if strategy != Scalar {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

var Material = Plan{
	"codigo":         Scalar,
	"denominacao":    Scalar,
	"especificacao":  Scalar,
	"unidade_medida": Scalar,
	"grupo_codigo":   Scalar,
	"grupo_nome":     Scalar,
	"valor":          Scalar,
	"ativo":          Scalar,
}

var MaterialRequisition = Plan{
	"numero":               Scalar,
	"ano":                  Scalar,
	"status":               Scalar,
	"convenio":             Scalar,
	"grupo_material":       Scalar,
	"unidade_requisitante": Scalar,
	"unidade_custo":        Scalar,
	"valor":                Scalar,
	"itens":                ReplaceMany,
	"historico":            ReplaceMany,
}

var MaintenanceRequisition = Plan{
	"numero":                Scalar,
	"ano":                   Scalar,
	"status":                Scalar,
	"descricao":             Scalar,
	"divisao":               Scalar,
	"usuario":               Scalar,
	"data_cadastro":         Scalar,
	"requisicao_mae":        Connect,
	"requisicoes_materiais": ReplaceMany,
}

var Contract = Plan{
	"numero":     Scalar,
	"ano":        Scalar,
	"objeto":     Scalar,
	"fornecedor": Scalar,
	"valor":      Scalar,
	"inicio":     Scalar,
	"fim":        Scalar,
	"photo":      Scalar,
}
