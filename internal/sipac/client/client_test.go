package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"sipacmirror/internal/config"
	"sipacmirror/internal/domain/material"
	"sipacmirror/internal/domain/materialreq"
	syncdom "sipacmirror/internal/domain/sync"
	"sipacmirror/internal/sipac/transport"
)

type staticTokens struct{}

func (staticTokens) EnsureValidToken(ctx context.Context) (string, error) {
	return "test-token", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func apiClientFor(t *testing.T, handler http.HandlerFunc) *transport.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.SIPAC{
		BaseURL:         srv.URL,
		RequestsPerHour: 3600000,
		HTTPTimeout:     5 * time.Second,
		MaxRedirects:    3,
	}
	return transport.NewAPIClient(cfg, staticTokens{}, testLogger())
}

func TestMaterialClientListPage(t *testing.T) {
	var gotPath, gotPagina, gotGrupo string
	api := apiClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPagina = r.URL.Query().Get("pagina")
		gotGrupo = r.URL.Query().Get("grupoMaterial")
		w.Write([]byte(`{"pagina": 2, "totalPaginas": 3, "itens": [{"idMaterial": "7", "codigo": "700"}]}`))
	})

	c := NewMaterialClient(api)
	p, err := c.ListPage(context.Background(), material.ListFilter{GrupoCodigo: "3024"}, 2)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/materiais", gotPath)
	assert.Equal(t, "2", gotPagina)
	assert.Equal(t, "3024", gotGrupo)
	assert.Equal(t, 3, p.TotalPaginas)
	require.Len(t, p.Itens, 1)
	assert.Equal(t, 7, p.Itens[0].ID.Int())
}

func TestMaterialClientGetByCodigoNotFound(t *testing.T) {
	api := apiClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nao encontrado", http.StatusNotFound)
	})

	c := NewMaterialClient(api)
	w, err := c.GetByCodigo(context.Background(), "999")
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestMaterialReqClientSendsDiscriminator(t *testing.T) {
	var gotTipo, gotNumero, gotAno string
	api := apiClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		gotTipo = r.URL.Query().Get("tipoRequisicao")
		gotNumero = r.URL.Query().Get("numero")
		gotAno = r.URL.Query().Get("ano")
		w.Write([]byte(`{"id": 5, "numero": 10, "ano": 2024}`))
	})

	c := NewMaterialReqClient(api, time.Minute)
	wire, err := c.GetByNumeroAno(context.Background(), syncdom.NumeroAno{Numero: 10, Ano: 2024})
	require.NoError(t, err)

	assert.Equal(t, tipoRequisicaoMaterial, gotTipo)
	assert.Equal(t, "10", gotNumero)
	assert.Equal(t, "2024", gotAno)
	require.NotNil(t, wire)
	assert.Equal(t, 5, wire.ID.Int())
}

func TestMaterialReqClientListRangeFormatsDates(t *testing.T) {
	var gotFrom, gotTo string
	api := apiClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("dataCadastroInicio")
		gotTo = r.URL.Query().Get("dataCadastroFim")
		w.Write([]byte(`[]`))
	})

	c := NewMaterialReqClient(api, time.Minute)
	_, err := c.ListRange(context.Background(), materialreq.Range{
		From: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "01/01/2024", gotFrom)
	assert.Equal(t, "31/12/2024", gotTo)
}
