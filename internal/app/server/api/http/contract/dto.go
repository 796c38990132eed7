package contract

import (
	"sipacmirror/internal/domain/contract"
	syncdom "sipacmirror/internal/domain/sync"
)

type listInput struct {
	Limit  int `query:"limit" example:"100" doc:"Page size, capped at 500"`
	Offset int `query:"offset" example:"0" doc:"Rows to skip"`
}

type listOutput struct {
	Body contract.ListResponse
}

type findInput struct {
	ID int `path:"id" example:"9107" doc:"Remote contract id"`
}

type findOutput struct {
	Body contract.Contract
}

type photoInput struct {
	ID int `path:"id" example:"9107" doc:"Remote contract id"`
}

type photoOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type syncInput struct {
	Body syncRequest
}

type syncRequest struct {
	Contratos []string `json:"contratos" minItems:"1" example:"[\"46/2024\"]" doc:"Contract keys in numero/ano form"`
}

type syncOutput struct {
	Body syncdom.Result
}

type syncAllInput struct {
	Ano int `query:"ano" example:"2024" minimum:"2000" doc:"Contract year to mirror"`
}

type syncAllOutput struct {
	Body acceptedResponse
}

type acceptedResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status" example:"accepted"`
}
