package material

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	syncdom "sipacmirror/internal/domain/sync"
)

// maxPages caps listing iteration in case the remote pagination
// contract is violated (totalPaginas is trusted but bounded).
const maxPages = 500

type Servicer interface {
	SyncAll(ctx context.Context, filter ListFilter) *syncdom.Result
	SyncOne(ctx context.Context, codigo string) *syncdom.Result
	SyncMany(ctx context.Context, codigos []string) *syncdom.Result
	Get(ctx context.Context, id int) (*Material, error)
	List(ctx context.Context, limit, offset int) (*ListResponse, error)
}

type Service struct {
	fetch Fetcher
	repo  Repository
	log   *slog.Logger
}

func NewService(fetch Fetcher, repo Repository, log *slog.Logger) *Service {
	return &Service{
		fetch: fetch,
		repo:  repo,
		log:   log.With("component", "material_service"),
	}
}

// SyncAll mirrors the whole remote listing for the given filter in one
// batch write with duplicate skipping. A fetch failure yields a
// zero-valued result; a batch persistence failure marks every mapped
// item failed, since the batch write commits as a unit.
func (s *Service) SyncAll(ctx context.Context, filter ListFilter) *syncdom.Result {
	result := syncdom.NewResult()

	batch := make([]Material, 0)
	for page := 1; page <= maxPages; page++ {
		p, err := s.fetch.ListPage(ctx, filter, page)
		if err != nil {
			s.log.Error("listing fetch failed", "page", page, "error", err)
			return syncdom.NewResult()
		}

		for _, w := range p.Itens {
			m, err := FromWire(w)
			if err != nil {
				s.log.Warn("skipping unmappable material", "codigo", w.Codigo, "error", err)
				result.AddFailure(w.Codigo, err.Error())
				continue
			}
			batch = append(batch, *m)
		}

		if page >= p.TotalPaginas {
			break
		}
	}

	if len(batch) == 0 {
		return result
	}

	inserted, err := s.repo.CreateManySkipDuplicates(ctx, batch)
	if err != nil {
		s.log.Error("batch persist failed", "run_id", result.RunID, "size", len(batch), "error", err)
		ids := make([]string, len(batch))
		for i, m := range batch {
			ids[i] = m.Codigo
		}
		result.AddBatch(ids, err)
		return result
	}

	// Items already present were skipped, not failed.
	result.TotalProcessed += len(batch)
	result.Successful += inserted

	s.log.Info("materials synchronized",
		"run_id", result.RunID,
		"fetched", len(batch),
		"inserted", inserted,
	)
	return result
}

// SyncOne mirrors a single material by catalog code.
func (s *Service) SyncOne(ctx context.Context, codigo string) *syncdom.Result {
	result := syncdom.NewResult()

	if err := s.fetchAndPersist(ctx, codigo); err != nil {
		result.AddFailure(codigo, err.Error())
		return result
	}

	result.AddSuccess(codigo)
	return result
}

// SyncMany processes codes sequentially to stay within the shared
// throttle; one code's failure never aborts the remaining ones.
func (s *Service) SyncMany(ctx context.Context, codigos []string) *syncdom.Result {
	result := syncdom.NewResult()
	for _, codigo := range codigos {
		result.Merge(s.SyncOne(ctx, codigo))
	}
	return result
}

// fetchAndPersist is the create-or-update branch point: an existing
// local row (by remote id) becomes an update, anything else a create.
func (s *Service) fetchAndPersist(ctx context.Context, codigo string) error {
	w, err := s.fetch.GetByCodigo(ctx, codigo)
	if err != nil {
		return fmt.Errorf("fetch material %s: %w", codigo, err)
	}
	if w == nil {
		return fmt.Errorf("material %s: %s", codigo, syncdom.MessageNotFound)
	}

	m, err := FromWire(*w)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, m.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("lookup material %d: %w", m.ID, err)
	}

	if existing != nil {
		if err := s.repo.Update(ctx, m); err != nil {
			return fmt.Errorf("update material %d: %w", m.ID, err)
		}
		return nil
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return fmt.Errorf("create material %d: %w", m.ID, err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int) (*Material, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) (*ListResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	ms, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count materials: %w", err)
	}

	return &ListResponse{Materiais: ms, Total: total}, nil
}

// EnsureExists resolves a material dependency referenced by a
// requisition item: return the local id when mirrored, otherwise fetch
// and persist it first.
func (s *Service) EnsureExists(ctx context.Context, codigo string) (int, error) {
	existing, err := s.repo.FindByCodigo(ctx, codigo)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("lookup material %s: %w", codigo, err)
	}

	if err := s.fetchAndPersist(ctx, codigo); err != nil {
		return 0, err
	}

	created, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return 0, fmt.Errorf("lookup material %s after sync: %w", codigo, err)
	}
	return created.ID, nil
}
