package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"sipacmirror/internal/domain/maintenance"
	syncdom "sipacmirror/internal/domain/sync"
	"sipacmirror/internal/sipac/transport"
)

// tipoRequisicaoManutencao is the constant discriminator the remote
// requires to address maintenance requisitions.
const tipoRequisicaoManutencao = "8"

// MaintenanceClient fetches maintenance requisitions from the data API.
type MaintenanceClient struct {
	api         *transport.Client
	syncTimeout time.Duration
}

func NewMaintenanceClient(api *transport.Client, syncTimeout time.Duration) *MaintenanceClient {
	return &MaintenanceClient{api: api, syncTimeout: syncTimeout}
}

func (c *MaintenanceClient) ListRange(ctx context.Context, rng maintenance.Range) ([]maintenance.Wire, error) {
	params := url.Values{}
	params.Set("tipoRequisicao", tipoRequisicaoManutencao)
	params.Set("dataCadastroInicio", dateParam(rng.From))
	params.Set("dataCadastroFim", dateParam(rng.To))

	body, err := c.api.Get(ctx, requisitionsPath, params, nil, &transport.Options{Timeout: c.syncTimeout})
	if err != nil {
		return nil, err
	}

	var wires []maintenance.Wire
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, fmt.Errorf("decode requisitions: %w", err)
	}
	return wires, nil
}

func (c *MaintenanceClient) GetByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*maintenance.Wire, error) {
	params := url.Values{}
	params.Set("tipoRequisicao", tipoRequisicaoManutencao)
	params.Set("numero", strconv.Itoa(key.Numero))
	params.Set("ano", strconv.Itoa(key.Ano))

	body, err := c.api.Get(ctx, requisitionsPath, params, nil, nil)
	if err != nil {
		if transport.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return decodeMaintenance(body)
}

func (c *MaintenanceClient) GetByID(ctx context.Context, id int) (*maintenance.Wire, error) {
	path := fmt.Sprintf("%s/%d", requisitionsPath, id)

	body, err := c.api.Get(ctx, path, nil, nil, nil)
	if err != nil {
		if transport.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return decodeMaintenance(body)
}

func decodeMaintenance(body []byte) (*maintenance.Wire, error) {
	var w maintenance.Wire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode requisition: %w", err)
	}
	if w.ID.Int() == 0 {
		return nil, nil
	}
	return &w, nil
}
