package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"sipacmirror/internal/domain/material"
	"sipacmirror/internal/sipac/transport"
)

const materialsPath = "/api/v1/materiais"

// MaterialClient fetches the materials catalog from the data API.
type MaterialClient struct {
	api *transport.Client
}

func NewMaterialClient(api *transport.Client) *MaterialClient {
	return &MaterialClient{api: api}
}

func (c *MaterialClient) ListPage(ctx context.Context, filter material.ListFilter, page int) (*material.Page, error) {
	params := url.Values{}
	params.Set("pagina", strconv.Itoa(page))
	if filter.GrupoCodigo != "" {
		params.Set("grupoMaterial", filter.GrupoCodigo)
	}
	if filter.Denominacao != "" {
		params.Set("denominacao", filter.Denominacao)
	}

	body, err := c.api.Get(ctx, materialsPath, params, nil, nil)
	if err != nil {
		return nil, err
	}

	var p material.Page
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode materials page: %w", err)
	}
	return &p, nil
}

func (c *MaterialClient) GetByCodigo(ctx context.Context, codigo string) (*material.Wire, error) {
	params := url.Values{}
	params.Set("codigo", codigo)

	body, err := c.api.Get(ctx, materialsPath, params, nil, nil)
	if err != nil {
		if transport.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var p material.Page
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode material: %w", err)
	}
	if len(p.Itens) == 0 {
		return nil, nil
	}
	return &p.Itens[0], nil
}
