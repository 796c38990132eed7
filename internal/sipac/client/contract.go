package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sipacmirror/internal/domain/contract"
	syncdom "sipacmirror/internal/domain/sync"
	"sipacmirror/internal/sipac/transport"
)

const contractsPath = "/contratos"

// ContractClient fetches contracts through the scraping gateway, which
// serves JSON for listings and raw bytes for the document photo.
type ContractClient struct {
	scrape      *transport.Client
	syncTimeout time.Duration
}

func NewContractClient(scrape *transport.Client, syncTimeout time.Duration) *ContractClient {
	return &ContractClient{scrape: scrape, syncTimeout: syncTimeout}
}

func (c *ContractClient) ListYear(ctx context.Context, ano int) ([]contract.Wire, error) {
	params := url.Values{}
	params.Set("ano", strconv.Itoa(ano))

	body, err := c.scrape.Get(ctx, contractsPath, params, nil, &transport.Options{Timeout: c.syncTimeout})
	if err != nil {
		return nil, err
	}

	var wires []contract.Wire
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, fmt.Errorf("decode contracts: %w", err)
	}
	return wires, nil
}

func (c *ContractClient) GetByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*contract.Wire, error) {
	params := url.Values{}
	params.Set("numero", strconv.Itoa(key.Numero))
	params.Set("ano", strconv.Itoa(key.Ano))

	body, err := c.scrape.Get(ctx, contractsPath, params, nil, nil)
	if err != nil {
		if transport.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return decodeContract(body)
}

func (c *ContractClient) GetByID(ctx context.Context, id int) (*contract.Wire, error) {
	path := fmt.Sprintf("%s/%d", contractsPath, id)

	body, err := c.scrape.Get(ctx, path, nil, nil, nil)
	if err != nil {
		if transport.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return decodeContract(body)
}

// GetPhoto fetches the signed-document photo bytes. The gateway serves
// the image directly, so the JSON Accept default is overridden.
func (c *ContractClient) GetPhoto(ctx context.Context, id int) ([]byte, error) {
	path := fmt.Sprintf("%s/%d/foto", contractsPath, id)

	headers := http.Header{}
	headers.Set("Accept", "image/*")

	body, err := c.scrape.Get(ctx, path, nil, headers, nil)
	if err != nil {
		if transport.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return body, nil
}

func decodeContract(body []byte) (*contract.Wire, error) {
	var w contract.Wire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode contract: %w", err)
	}
	if w.ID.Int() == 0 {
		return nil, nil
	}
	return &w, nil
}
