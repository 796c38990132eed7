package materialreq

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

// MaterialEnsurer mirrors a referenced material into local storage so
// requisition items can be joined against the materials table.
type MaterialEnsurer interface {
	EnsureExists(ctx context.Context, codigo string) (int, error)
}

type Service struct {
	fetch     Fetcher
	repo      Repository
	materials MaterialEnsurer
	log       *slog.Logger
}

func NewService(fetch Fetcher, repo Repository, materials MaterialEnsurer, log *slog.Logger) *Service {
	return &Service{
		fetch:     fetch,
		repo:      repo,
		materials: materials,
		log:       log.With("component", "materialreq_service"),
	}
}

// SyncAll mirrors every requisition registered inside the range as
// bare rows (the listing payload carries no items) in one batch write
// with duplicate skipping. Detail is filled in by later SyncOne calls.
func (s *Service) SyncAll(ctx context.Context, rng Range) *syncdom.Result {
	result := syncdom.NewResult()

	wires, err := s.fetch.ListRange(ctx, rng)
	if err != nil {
		s.log.Error("range fetch failed", "from", rng.From, "to", rng.To, "error", err)
		return result
	}

	batch := make([]Requisition, 0, len(wires))
	for _, w := range wires {
		r, err := FromWire(w)
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

	s.log.Info("material requisitions synchronized",
		"run_id", result.RunID,
		"fetched", len(batch),
		"inserted", inserted,
	)
	return result
}

// SyncOne mirrors one requisition, items and history included.
func (s *Service) SyncOne(ctx context.Context, key syncdom.NumeroAno) *syncdom.Result {
	result := syncdom.NewResult()

	if err := s.fetchCompleteAndPersist(ctx, key); err != nil {
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

// fetchCompleteAndPersist is the create-or-update branch point: when a
// local row matches the composite key the full detail is re-fetched by
// its numeric id and persisted as an update (child collections
// replaced), otherwise the detail is fetched by key and created.
func (s *Service) fetchCompleteAndPersist(ctx context.Context, key syncdom.NumeroAno) error {
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

	r, err := FromWire(*w)
	if err != nil {
		return err
	}

	s.ensureItemMaterials(ctx, r)

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

// ensureItemMaterials mirrors the catalog entry each line references.
// Items carry the catalog code directly, so a material that cannot be
// fetched right now only costs the local join, not the item itself.
func (s *Service) ensureItemMaterials(ctx context.Context, r *Requisition) {
	if s.materials == nil {
		return
	}
	seen := make(map[string]bool)
	for _, item := range r.Itens {
		if item.MaterialCodigo == "" || seen[item.MaterialCodigo] {
			continue
		}
		seen[item.MaterialCodigo] = true
		if _, err := s.materials.EnsureExists(ctx, item.MaterialCodigo); err != nil {
			s.log.Warn("referenced material unavailable",
				"requisition", r.Key(),
				"material", item.MaterialCodigo,
				"error", err,
			)
		}
	}
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

// EnsureExists resolves a requisition referenced as a dependency by a
// maintenance requisition: return the local id when mirrored,
// otherwise mirror it first.
func (s *Service) EnsureExists(ctx context.Context, key syncdom.NumeroAno) (int, error) {
	existing, err := s.repo.FindByNumeroAno(ctx, key)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("lookup requisition %s: %w", key, err)
	}

	if err := s.fetchCompleteAndPersist(ctx, key); err != nil {
		return 0, err
	}

	created, err := s.repo.FindByNumeroAno(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("lookup requisition %s after sync: %w", key, err)
	}
	return created.ID, nil
}
