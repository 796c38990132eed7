package materialreq

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

func (m *MockRepository) FindByID(ctx context.Context, id int) (*Requisition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Requisition), args.Error(1)
}

func (m *MockRepository) FindByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*Requisition, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Requisition), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, r *Requisition) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, r *Requisition) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) CreateManySkipDuplicates(ctx context.Context, rs []Requisition) (int, error) {
	args := m.Called(ctx, rs)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, limit, offset int) ([]Requisition, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Requisition), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) ListRange(ctx context.Context, rng Range) ([]Wire, error) {
	args := m.Called(ctx, rng)
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

// MockEnsurer is a mock implementation of the MaterialEnsurer interface for testing
type MockEnsurer struct {
	mock.Mock
}

func (m *MockEnsurer) EnsureExists(ctx context.Context, codigo string) (int, error) {
	args := m.Called(ctx, codigo)
	return args.Int(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWire(id, numero, ano int) Wire {
	return Wire{
		ID:     parse.FlexID(id),
		Numero: parse.FlexID(numero),
		Ano:    parse.FlexID(ano),
		Status: "ENVIADA",
	}
}

func key(numero, ano int) syncdom.NumeroAno {
	return syncdom.NumeroAno{Numero: numero, Ano: ano}
}

func TestSyncAll(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	svc := NewService(fetch, repo, nil, testLogger())

	rng := Range{}
	fetch.On("ListRange", mock.Anything, rng).
		Return([]Wire{testWire(1, 10, 2024), testWire(2, 11, 2024)}, nil)
	repo.On("CreateManySkipDuplicates", mock.Anything, mock.MatchedBy(func(rs []Requisition) bool {
		return len(rs) == 2
	})).Return(1, nil)

	result := svc.SyncAll(context.Background(), rng)

	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 0, result.Failed)
}

func TestSyncAllFetchFailure(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	svc := NewService(fetch, repo, nil, testLogger())

	fetch.On("ListRange", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	result := svc.SyncAll(context.Background(), Range{})

	assert.Equal(t, 0, result.TotalProcessed)
	repo.AssertNotCalled(t, "CreateManySkipDuplicates", mock.Anything, mock.Anything)
}

func TestSyncAllBatchFailureMarksAllFailed(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	svc := NewService(fetch, repo, nil, testLogger())

	fetch.On("ListRange", mock.Anything, mock.Anything).
		Return([]Wire{testWire(1, 10, 2024), testWire(2, 11, 2024)}, nil)
	repo.On("CreateManySkipDuplicates", mock.Anything, mock.Anything).
		Return(0, errors.New("deadlock"))

	result := svc.SyncAll(context.Background(), Range{})

	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Details, 2)
	assert.Equal(t, "10/2024", result.Details[0].Identifier)
	assert.Contains(t, result.Details[0].Message, "deadlock")
}

func TestSyncOneCreatesWhenAbsent(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	svc := NewService(fetch, repo, nil, testLogger())

	k := key(10, 2024)
	w := testWire(1, 10, 2024)
	repo.On("FindByNumeroAno", mock.Anything, k).Return(nil, ErrNotFound)
	fetch.On("GetByNumeroAno", mock.Anything, k).Return(&w, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *Requisition) bool {
		return r.ID == 1
	})).Return(nil)

	result := svc.SyncOne(context.Background(), k)

	assert.Equal(t, 1, result.Successful)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	fetch.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSyncOneUpdatesWhenPresent(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	svc := NewService(fetch, repo, nil, testLogger())

	k := key(10, 2024)
	w := testWire(1, 10, 2024)
	repo.On("FindByNumeroAno", mock.Anything, k).Return(&Requisition{ID: 1, Numero: 10, Ano: 2024}, nil)
	fetch.On("GetByID", mock.Anything, 1).Return(&w, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	result := svc.SyncOne(context.Background(), k)

	assert.Equal(t, 1, result.Successful)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	fetch.AssertNotCalled(t, "GetByNumeroAno", mock.Anything, mock.Anything)
}

func TestSyncOneNotFoundRemotely(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	svc := NewService(fetch, repo, nil, testLogger())

	k := key(99, 2024)
	repo.On("FindByNumeroAno", mock.Anything, k).Return(nil, ErrNotFound)
	fetch.On("GetByNumeroAno", mock.Anything, k).Return(nil, nil)

	result := svc.SyncOne(context.Background(), k)

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Details, 1)
	assert.Contains(t, result.Details[0].Message, syncdom.MessageNotFound)
}

func TestSyncManyIsolatesFailures(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	svc := NewService(fetch, repo, nil, testLogger())

	a, c := testWire(1, 1, 2024), testWire(3, 3, 2024)
	repo.On("FindByNumeroAno", mock.Anything, mock.Anything).Return(nil, ErrNotFound)
	fetch.On("GetByNumeroAno", mock.Anything, key(1, 2024)).Return(&a, nil)
	fetch.On("GetByNumeroAno", mock.Anything, key(2, 2024)).Return(nil, errors.New("timeout"))
	fetch.On("GetByNumeroAno", mock.Anything, key(3, 2024)).Return(&c, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result := svc.SyncMany(context.Background(), []syncdom.NumeroAno{
		key(1, 2024), key(2, 2024), key(3, 2024),
	})

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
}

func TestSyncOneEnsuresItemMaterials(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	materials := new(MockEnsurer)
	svc := NewService(fetch, repo, materials, testLogger())

	k := key(10, 2024)
	w := testWire(1, 10, 2024)
	w.Itens = []ItemWire{
		{Ordem: 1, Material: "100 - PARAFUSO"},
		{Ordem: 2, Material: "100 - PARAFUSO"},
		{Ordem: 3, Material: "200 - PORCA"},
	}
	repo.On("FindByNumeroAno", mock.Anything, k).Return(nil, ErrNotFound)
	fetch.On("GetByNumeroAno", mock.Anything, k).Return(&w, nil)
	materials.On("EnsureExists", mock.Anything, "100").Return(1, nil).Once()
	materials.On("EnsureExists", mock.Anything, "200").Return(0, errors.New("unavailable")).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *Requisition) bool {
		return len(r.Itens) == 3
	})).Return(nil)

	result := svc.SyncOne(context.Background(), k)

	// an unavailable catalog entry never fails the requisition
	assert.Equal(t, 1, result.Successful)
	materials.AssertExpectations(t)
}

func TestEnsureExistsFetchesWhenAbsent(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	svc := NewService(fetch, repo, nil, testLogger())

	k := key(10, 2024)
	w := testWire(1, 10, 2024)
	repo.On("FindByNumeroAno", mock.Anything, k).Return(nil, ErrNotFound).Twice()
	fetch.On("GetByNumeroAno", mock.Anything, k).Return(&w, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("FindByNumeroAno", mock.Anything, k).Return(&Requisition{ID: 1}, nil).Once()

	id, err := svc.EnsureExists(context.Background(), k)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}
