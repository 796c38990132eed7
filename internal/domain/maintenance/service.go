package maintenance

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	syncdom "sipacmirror/internal/domain/sync"
)

type Servicer interface {
	SyncAll(ctx context.Context, rng Range) *syncdom.Result
	SyncOne(ctx context.Context, key syncdom.NumeroAno) *syncdom.Result
	SyncMany(ctx context.Context, keys []syncdom.NumeroAno) *syncdom.Result
	Get(ctx context.Context, id int) (*Requisition, error)
	GetByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*Requisition, error)
	List(ctx context.Context, limit, offset int) (*ListResponse, error)
}

// MaterialReqEnsurer resolves a referenced material requisition to its
// local id, mirroring it first when absent.
type MaterialReqEnsurer interface {
	EnsureExists(ctx context.Context, key syncdom.NumeroAno) (int, error)
}

type Service struct {
	fetch   Fetcher
	repo    Repository
	matreqs MaterialReqEnsurer
	log     *slog.Logger
}

func NewService(fetch Fetcher, repo Repository, matreqs MaterialReqEnsurer, log *slog.Logger) *Service {
	return &Service{
		fetch:   fetch,
		repo:    repo,
		matreqs: matreqs,
		log:     log.With("component", "maintenance_service"),
	}
}

// SyncAll mirrors every requisition registered inside the range as
// bare rows in one batch write with duplicate skipping. References are
// resolved by later SyncOne calls, not here.
func (s *Service) SyncAll(ctx context.Context, rng Range) *syncdom.Result {
	result := syncdom.NewResult()

	wires, err := s.fetch.ListRange(ctx, rng)
	if err != nil {
		s.log.Error("range fetch failed", "from", rng.From, "to", rng.To, "error", err)
		return result
	}

	batch := make([]Requisition, 0, len(wires))
	for _, w := range wires {
		r, _, err := FromWire(w)
		if err != nil {
			s.log.Warn("skipping unmappable requisition", "id", w.ID.Int(), "error", err)
			result.AddFailure(fmt.Sprintf("%d/%d", w.Numero.Int(), w.Ano.Int()), err.Error())
			continue
		}
		batch = append(batch, *r)
	}

	if len(batch) == 0 {
		return result
	}

	inserted, err := s.repo.CreateManySkipDuplicates(ctx, batch)
	if err != nil {
		s.log.Error("batch persist failed", "run_id", result.RunID, "size", len(batch), "error", err)
		keys := make([]string, len(batch))
		for i, r := range batch {
			keys[i] = r.Key().String()
		}
		result.AddBatch(keys, err)
		return result
	}

	result.TotalProcessed += len(batch)
	result.Successful += inserted

	s.log.Info("maintenance requisitions synchronized",
		"run_id", result.RunID,
		"fetched", len(batch),
		"inserted", inserted,
	)
	return result
}

// SyncOne mirrors one requisition, resolving its parent and material
// requisition references first.
func (s *Service) SyncOne(ctx context.Context, key syncdom.NumeroAno) *syncdom.Result {
	result := syncdom.NewResult()

	inProgress := map[string]bool{}
	if err := s.fetchCompleteAndPersist(ctx, key, inProgress); err != nil {
		result.AddFailure(key.String(), err.Error())
		return result
	}

	result.AddSuccess(key.String())
	return result
}

// SyncMany processes keys sequentially to stay within the shared
// throttle; one key's failure never aborts the remaining ones.
func (s *Service) SyncMany(ctx context.Context, keys []syncdom.NumeroAno) *syncdom.Result {
	result := syncdom.NewResult()
	for _, key := range keys {
		result.Merge(s.SyncOne(ctx, key))
	}
	return result
}

// fetchCompleteAndPersist is the create-or-update branch point. The
// inProgress set tracks keys being resolved within one top-level sync
// call; re-entry means the remote reference graph has a cycle, and the
// re-entered key is reported unavailable instead of recursing.
func (s *Service) fetchCompleteAndPersist(ctx context.Context, key syncdom.NumeroAno, inProgress map[string]bool) error {
	if inProgress[key.String()] {
		return fmt.Errorf("%w: %s", ErrResolutionCycle, key)
	}
	inProgress[key.String()] = true
	defer delete(inProgress, key.String())

	existing, err := s.repo.FindByNumeroAno(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("lookup requisition %s: %w", key, err)
	}

	var w *Wire
	if existing != nil {
		w, err = s.fetch.GetByID(ctx, existing.ID)
	} else {
		w, err = s.fetch.GetByNumeroAno(ctx, key)
	}
	if err != nil {
		return fmt.Errorf("fetch requisition %s: %w", key, err)
	}
	if w == nil {
		return fmt.Errorf("requisition %s: %s", key, syncdom.MessageNotFound)
	}

	r, deps, err := FromWire(*w)
	if err != nil {
		return err
	}

	s.resolveDependencies(ctx, r, deps, inProgress)

	if existing != nil {
		if err := s.repo.Update(ctx, r); err != nil {
			return fmt.Errorf("update requisition %s: %w", key, err)
		}
		return nil
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return fmt.Errorf("create requisition %s: %w", key, err)
	}
	return nil
}

// resolveDependencies turns composite-key references into local ids,
// mirroring each referenced record on demand. A reference that cannot
// be resolved is dropped with a warning; it never fails the parent.
func (s *Service) resolveDependencies(ctx context.Context, r *Requisition, deps Dependencies, inProgress map[string]bool) {
	if deps.Mae != nil {
		id, err := s.ensureExists(ctx, *deps.Mae, inProgress)
		if err != nil {
			s.log.Warn("parent requisition unavailable, reference dropped",
				"requisition", r.Key(),
				"mae", deps.Mae,
				"error", err,
			)
		} else {
			r.RequisicaoMaeID = &id
		}
	}

	for _, key := range deps.MaterialReqs {
		id, err := s.matreqs.EnsureExists(ctx, key)
		if err != nil {
			s.log.Warn("material requisition unavailable, reference dropped",
				"requisition", r.Key(),
				"material_req", key,
				"error", err,
			)
			continue
		}
		r.MaterialReqIDs = append(r.MaterialReqIDs, id)
	}
}

// ensureExists resolves a parent maintenance requisition, mirroring it
// through the same in-progress set so cyclic references terminate.
func (s *Service) ensureExists(ctx context.Context, key syncdom.NumeroAno, inProgress map[string]bool) (int, error) {
	existing, err := s.repo.FindByNumeroAno(ctx, key)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("lookup requisition %s: %w", key, err)
	}

	if err := s.fetchCompleteAndPersist(ctx, key, inProgress); err != nil {
		return 0, err
	}

	created, err := s.repo.FindByNumeroAno(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("lookup requisition %s after sync: %w", key, err)
	}
	return created.ID, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Requisition, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*Requisition, error) {
	return s.repo.FindByNumeroAno(ctx, key)
}

func (s *Service) List(ctx context.Context, limit, offset int) (*ListResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count requisitions: %w", err)
	}

	return &ListResponse{Requisicoes: rs, Total: total}, nil
}
