package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"sipacmirror/internal/domain/materialreq"
	syncdom "sipacmirror/internal/domain/sync"
	"sipacmirror/internal/sipac/transport"
)

const (
	requisitionsPath = "/api/v1/requisicoes"

	// tipoRequisicaoMaterial is the constant discriminator the remote
	// requires to address material requisitions.
	tipoRequisicaoMaterial = "2"
)

// MaterialReqClient fetches material requisitions from the data API.
type MaterialReqClient struct {
	api         *transport.Client
	syncTimeout time.Duration
}

func NewMaterialReqClient(api *transport.Client, syncTimeout time.Duration) *MaterialReqClient {
	return &MaterialReqClient{api: api, syncTimeout: syncTimeout}
}

func (c *MaterialReqClient) ListRange(ctx context.Context, rng materialreq.Range) ([]materialreq.Wire, error) {
	params := url.Values{}
	params.Set("tipoRequisicao", tipoRequisicaoMaterial)
	params.Set("dataCadastroInicio", dateParam(rng.From))
	params.Set("dataCadastroFim", dateParam(rng.To))

	// Ranges can span months of records; give the remote time.
	body, err := c.api.Get(ctx, requisitionsPath, params, nil, &transport.Options{Timeout: c.syncTimeout})
	if err != nil {
		return nil, err
	}

	var wires []materialreq.Wire
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, fmt.Errorf("decode requisitions: %w", err)
	}
	return wires, nil
}

func (c *MaterialReqClient) GetByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*materialreq.Wire, error) {
	params := url.Values{}
	params.Set("tipoRequisicao", tipoRequisicaoMaterial)
	params.Set("numero", strconv.Itoa(key.Numero))
	params.Set("ano", strconv.Itoa(key.Ano))

	body, err := c.api.Get(ctx, requisitionsPath, params, nil, nil)
	if err != nil {
		if transport.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return decodeRequisition(body)
}

func (c *MaterialReqClient) GetByID(ctx context.Context, id int) (*materialreq.Wire, error) {
	path := fmt.Sprintf("%s/%d", requisitionsPath, id)

	body, err := c.api.Get(ctx, path, nil, nil, nil)
	if err != nil {
		if transport.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return decodeRequisition(body)
}

func decodeRequisition(body []byte) (*materialreq.Wire, error) {
	var w materialreq.Wire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode requisition: %w", err)
	}
	if w.ID.Int() == 0 {
		return nil, nil
	}
	return &w, nil
}
