package maintenance

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

// MockEnsurer is a mock implementation of the MaterialReqEnsurer interface for testing
type MockEnsurer struct {
	mock.Mock
}

func (m *MockEnsurer) EnsureExists(ctx context.Context, key syncdom.NumeroAno) (int, error) {
	args := m.Called(ctx, key)
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
		Status: "CADASTRADA",
	}
}

func key(numero, ano int) syncdom.NumeroAno {
	return syncdom.NumeroAno{Numero: numero, Ano: ano}
}

func TestSyncOneCreatesWhenAbsent(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	matreqs := new(MockEnsurer)
	svc := NewService(fetch, repo, matreqs, testLogger())

	k := key(55, 2025)
	w := testWire(1, 55, 2025)
	repo.On("FindByNumeroAno", mock.Anything, k).Return(nil, ErrNotFound)
	fetch.On("GetByNumeroAno", mock.Anything, k).Return(&w, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *Requisition) bool {
		return r.ID == 1 && r.RequisicaoMaeID == nil
	})).Return(nil)

	result := svc.SyncOne(context.Background(), k)

	assert.Equal(t, 1, result.Successful)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSyncOneUpdatesWhenPresent(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	matreqs := new(MockEnsurer)
	svc := NewService(fetch, repo, matreqs, testLogger())

	k := key(55, 2025)
	w := testWire(1, 55, 2025)
	repo.On("FindByNumeroAno", mock.Anything, k).Return(&Requisition{ID: 1, Numero: 55, Ano: 2025}, nil)
	fetch.On("GetByID", mock.Anything, 1).Return(&w, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	result := svc.SyncOne(context.Background(), k)

	assert.Equal(t, 1, result.Successful)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSyncOneResolvesParent(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	matreqs := new(MockEnsurer)
	svc := NewService(fetch, repo, matreqs, testLogger())

	child, parent := key(55, 2025), key(54, 2025)
	childWire := testWire(1, 55, 2025)
	childWire.RequisicaoMae = "54/2025"
	parentWire := testWire(2, 54, 2025)

	repo.On("FindByNumeroAno", mock.Anything, child).Return(nil, ErrNotFound)
	fetch.On("GetByNumeroAno", mock.Anything, child).Return(&childWire, nil)
	repo.On("FindByNumeroAno", mock.Anything, parent).Return(nil, ErrNotFound).Twice()
	fetch.On("GetByNumeroAno", mock.Anything, parent).Return(&parentWire, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *Requisition) bool {
		return r.ID == 2
	})).Return(nil).Once()
	repo.On("FindByNumeroAno", mock.Anything, parent).Return(&Requisition{ID: 2}, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *Requisition) bool {
		return r.ID == 1 && r.RequisicaoMaeID != nil && *r.RequisicaoMaeID == 2
	})).Return(nil).Once()

	result := svc.SyncOne(context.Background(), child)

	assert.Equal(t, 1, result.Successful)
	repo.AssertExpectations(t)
}

func TestDependencyDropIsNotFatal(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	matreqs := new(MockEnsurer)
	svc := NewService(fetch, repo, matreqs, testLogger())

	k := key(55, 2025)
	w := testWire(1, 55, 2025)
	w.RequisicoesMateriais = []string{"100/2025", "101/2025"}

	repo.On("FindByNumeroAno", mock.Anything, k).Return(nil, ErrNotFound)
	fetch.On("GetByNumeroAno", mock.Anything, k).Return(&w, nil)
	matreqs.On("EnsureExists", mock.Anything, key(100, 2025)).Return(10, nil)
	matreqs.On("EnsureExists", mock.Anything, key(101, 2025)).Return(0, errors.New("remote fetch failed"))
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *Requisition) bool {
		return len(r.MaterialReqIDs) == 1 && r.MaterialReqIDs[0] == 10
	})).Return(nil)

	result := svc.SyncOne(context.Background(), k)

	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 0, result.Failed)
}

func TestCyclicParentReferenceTerminates(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	matreqs := new(MockEnsurer)
	svc := NewService(fetch, repo, matreqs, testLogger())

	a, b := key(1, 2025), key(2, 2025)
	wireA := testWire(10, 1, 2025)
	wireA.RequisicaoMae = "2/2025"
	wireB := testWire(20, 2, 2025)
	wireB.RequisicaoMae = "1/2025"

	repo.On("FindByNumeroAno", mock.Anything, a).Return(nil, ErrNotFound)
	repo.On("FindByNumeroAno", mock.Anything, b).Return(nil, ErrNotFound).Twice()
	fetch.On("GetByNumeroAno", mock.Anything, a).Return(&wireA, nil)
	fetch.On("GetByNumeroAno", mock.Anything, b).Return(&wireB, nil)
	// B is created without its mae reference since A is still in flight
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *Requisition) bool {
		return r.ID == 20 && r.RequisicaoMaeID == nil
	})).Return(nil).Once()
	repo.On("FindByNumeroAno", mock.Anything, b).Return(&Requisition{ID: 20}, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *Requisition) bool {
		return r.ID == 10 && r.RequisicaoMaeID != nil && *r.RequisicaoMaeID == 20
	})).Return(nil).Once()

	result := svc.SyncOne(context.Background(), a)

	assert.Equal(t, 1, result.Successful)
	fetch.AssertNumberOfCalls(t, "GetByNumeroAno", 2)
}

func TestSyncAllBatchFailureMarksAllFailed(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	matreqs := new(MockEnsurer)
	svc := NewService(fetch, repo, matreqs, testLogger())

	fetch.On("ListRange", mock.Anything, mock.Anything).
		Return([]Wire{testWire(1, 10, 2025), testWire(2, 11, 2025)}, nil)
	repo.On("CreateManySkipDuplicates", mock.Anything, mock.Anything).
		Return(0, errors.New("connection reset"))

	result := svc.SyncAll(context.Background(), Range{})

	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Details, 2)
}

func TestSyncManyIsolatesFailures(t *testing.T) {
	fetch := new(MockFetcher)
	repo := new(MockRepository)
	matreqs := new(MockEnsurer)
	svc := NewService(fetch, repo, matreqs, testLogger())

	a, c := testWire(1, 1, 2025), testWire(3, 3, 2025)
	repo.On("FindByNumeroAno", mock.Anything, mock.Anything).Return(nil, ErrNotFound)
	fetch.On("GetByNumeroAno", mock.Anything, key(1, 2025)).Return(&a, nil)
	fetch.On("GetByNumeroAno", mock.Anything, key(2, 2025)).Return(nil, errors.New("timeout"))
	fetch.On("GetByNumeroAno", mock.Anything, key(3, 2025)).Return(&c, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result := svc.SyncMany(context.Background(), []syncdom.NumeroAno{
		key(1, 2025), key(2, 2025), key(3, 2025),
	})

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
}
