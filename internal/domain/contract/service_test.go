package contract

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	syncdom "sipacmirror/internal/domain/sync"
	"sipacmirror/internal/sipac/parse"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Contract), args.Error(1)
}

func (m *MockRepository) FindByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*Contract, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Contract), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, c *Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, c *Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) CreateManySkipDuplicates(ctx context.Context, cs []Contract) (int, error) {
	args := m.Called(ctx, cs)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) UpdatePhoto(ctx context.Context, id int, photo []byte) error {
	args := m.Called(ctx, id, photo)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, limit, offset int) ([]Contract, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Contract), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) ListYear(ctx context.Context, ano int) ([]Wire, error) {
	args := m.Called(ctx, ano)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Wire), args.Error(1)
}

func (m *MockFetcher) GetByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*Wire, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wire), args.Error(1)
}

func (m *MockFetcher) GetByID(ctx context.Context, id int) (*Wire, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wire), args.Error(1)
}

func (m *MockFetcher) GetPhoto(ctx context.Context, id int) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWire(id, numero, ano int) Wire {
	return Wire{
		ID:         parse.FlexID(id),
		Numero:     parse.FlexID(numero),
		Ano:        parse.FlexID(ano),
		Fornecedor: "ACME LTDA",
		Valor:      "R$ 10.000,00",
		Inicio:     "01/01/2025",
	}
}

func key(numero, ano int) syncdom.NumeroAno {
	return syncdom.NumeroAno{Numero: numero, Ano: ano}
}

func TestSyncAll(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	svc := NewService(fetch, repo, testLogger())

	fetch.On("ListYear", mock.Anything, 2025).
		Return([]Wire{testWire(1, 10, 2025), testWire(2, 11, 2025)}, nil)
	repo.On("CreateManySkipDuplicates", mock.Anything, mock.MatchedBy(func(cs []Contract) bool {
		return len(cs) == 2 && cs[0].Valor.String() == "10000"
	})).Return(2, nil)

	result := svc.SyncAll(context.Background(), 2025)

	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 0, result.Failed)
}

func TestSyncOneCreateVsUpdate(t *testing.T) {
	t.Run("create when absent", func(t *testing.T) {
		fetch := new(MockFetcher)
		repo := new(MockRepository)
		svc := NewService(fetch, repo, testLogger())

		k := key(10, 2025)
		w := testWire(1, 10, 2025)
		repo.On("FindByNumeroAno", mock.Anything, k).Return(nil, ErrNotFound)
		fetch.On("GetByNumeroAno", mock.Anything, k).Return(&w, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result := svc.SyncOne(context.Background(), k)

		assert.Equal(t, 1, result.Successful)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("update when present", func(t *testing.T) {
		fetch := new(MockFetcher)
		repo := new(MockRepository)
		svc := NewService(fetch, repo, testLogger())

		k := key(10, 2025)
		w := testWire(1, 10, 2025)
		repo.On("FindByNumeroAno", mock.Anything, k).Return(&Contract{ID: 1}, nil)
		fetch.On("GetByID", mock.Anything, 1).Return(&w, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		result := svc.SyncOne(context.Background(), k)

		assert.Equal(t, 1, result.Successful)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestPhoto(t *testing.T) {
	t.Run("cached", func(t *testing.T) {
		fetch := new(MockFetcher)
		repo := new(MockRepository)
		svc := NewService(fetch, repo, testLogger())

		repo.On("FindByID", mock.Anything, 1).Return(&Contract{ID: 1, Photo: []byte("jpeg")}, nil)

		photo, err := svc.Photo(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg"), photo)
		fetch.AssertNotCalled(t, "GetPhoto", mock.Anything, mock.Anything)
	})

	t.Run("fetched and stored on first access", func(t *testing.T) {
		fetch := new(MockFetcher)
		repo := new(MockRepository)
		svc := NewService(fetch, repo, testLogger())

		repo.On("FindByID", mock.Anything, 1).Return(&Contract{ID: 1}, nil)
		fetch.On("GetPhoto", mock.Anything, 1).Return([]byte("jpeg"), nil)
		repo.On("UpdatePhoto", mock.Anything, 1, []byte("jpeg")).Return(nil)

		photo, err := svc.Photo(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg"), photo)
		repo.AssertExpectations(t)
	})

	t.Run("absent remotely", func(t *testing.T) {
		fetch := new(MockFetcher)
		repo := new(MockRepository)
		svc := NewService(fetch, repo, testLogger())

		repo.On("FindByID", mock.Anything, 1).Return(&Contract{ID: 1}, nil)
		fetch.On("GetPhoto", mock.Anything, 1).Return(nil, nil)

		_, err := svc.Photo(context.Background(), 1)
		assert.ErrorIs(t, err, ErrPhotoMissing)
		repo.AssertNotCalled(t, "UpdatePhoto", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSyncManyIsolatesFailures(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	svc := NewService(fetch, repo, testLogger())

	a := testWire(1, 1, 2025)
	repo.On("FindByNumeroAno", mock.Anything, mock.Anything).Return(nil, ErrNotFound)
	fetch.On("GetByNumeroAno", mock.Anything, key(1, 2025)).Return(&a, nil)
	fetch.On("GetByNumeroAno", mock.Anything, key(2, 2025)).Return(nil, errors.New("gateway timeout"))
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result := svc.SyncMany(context.Background(), []syncdom.NumeroAno{key(1, 2025), key(2, 2025)})

	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
}
