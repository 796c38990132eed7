package maintenance

import (
	"sipacmirror/internal/domain/maintenance"
	syncdom "sipacmirror/internal/domain/sync"
)

type listInput struct {
	Limit  int `query:"limit" example:"100" doc:"Page size, capped at 500"`
	Offset int `query:"offset" example:"0" doc:"Rows to skip"`
}

type listOutput struct {
	Body maintenance.ListResponse
}

type findInput struct {
	ID int `path:"id" example:"40412" doc:"Remote requisition id"`
}

type findOutput struct {
	Body maintenance.Requisition
}

type syncInput struct {
	Body syncRequest
}

type syncRequest struct {
	Requisicoes []string `json:"requisicoes" minItems:"1" example:"[\"12/2024\"]" doc:"Requisition keys in numero/ano form"`
}

type syncOutput struct {
	Body syncdom.Result
}

type syncAllInput struct {
	From string `query:"from" example:"2024-01-01" doc:"Registration date range start (YYYY-MM-DD)"`
	To   string `query:"to" example:"2024-12-31" doc:"Registration date range end (YYYY-MM-DD)"`
}

type syncAllOutput struct {
	Body acceptedResponse
}

type acceptedResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status" example:"accepted"`
}
