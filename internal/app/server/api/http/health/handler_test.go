package health

import (
	"context"
	"errors"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHandler_healthCheck(t *testing.T) {
	tests := []struct {
		name       string
		ping       error
		expectedDB string
	}{
		{
			name:       "database reachable",
			ping:       nil,
			expectedDB: "OK",
		},
		{
			name:       "database down",
			ping:       errors.New("connection refused"),
			expectedDB: "DOWN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := pingerFunc(func(ctx context.Context) error { return tt.ping })
			handler := NewHandler(db, slog.Default(), huma.Middlewares{})

			output, err := handler.healthCheck(context.Background(), &Input{})

			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.Equal(t, "OK", output.Body.Status)
			assert.Equal(t, tt.expectedDB, output.Body.Database)
		})
	}
}

func TestNewHandler(t *testing.T) {
	handler := NewHandler(nil, slog.Default(), huma.Middlewares{})

	assert.NotNil(t, handler)
	assert.NotNil(t, handler.log)
}
