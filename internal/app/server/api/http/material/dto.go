package material

import (
	"sipacmirror/internal/domain/material"
	syncdom "sipacmirror/internal/domain/sync"
)

type listInput struct {
	Limit  int `query:"limit" example:"100" doc:"Page size, capped at 500"`
	Offset int `query:"offset" example:"0" doc:"Rows to skip"`
}

type listOutput struct {
	Body material.ListResponse
}

type findInput struct {
	ID int `path:"id" example:"30240" doc:"Remote material id"`
}

type findOutput struct {
	Body material.Material
}

type syncInput struct {
	Body syncRequest
}

type syncRequest struct {
	Codigos []string `json:"codigos" minItems:"1" doc:"Catalog codes to synchronize"`
}

type syncOutput struct {
	Body syncdom.Result
}

type syncAllInput struct {
	GrupoCodigo string `query:"grupo" doc:"Restrict to one material group"`
	Denominacao string `query:"denominacao" doc:"Restrict by name"`
}

type syncAllOutput struct {
	Body acceptedResponse
}

type acceptedResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status" example:"accepted"`
}
