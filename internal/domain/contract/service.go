package contract

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	syncdom "sipacmirror/internal/domain/sync"
)

type Servicer interface {
	SyncAll(ctx context.Context, ano int) *syncdom.Result
	SyncOne(ctx context.Context, key syncdom.NumeroAno) *syncdom.Result
	SyncMany(ctx context.Context, keys []syncdom.NumeroAno) *syncdom.Result
	Get(ctx context.Context, id int) (*Contract, error)
	List(ctx context.Context, limit, offset int) (*ListResponse, error)
	Photo(ctx context.Context, id int) ([]byte, error)
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
		log:   log.With("component", "contract_service"),
	}
}

// SyncAll mirrors every contract of the given year in one batch write
// with duplicate skipping.
func (s *Service) SyncAll(ctx context.Context, ano int) *syncdom.Result {
	result := syncdom.NewResult()

	wires, err := s.fetch.ListYear(ctx, ano)
	if err != nil {
		s.log.Error("year fetch failed", "ano", ano, "error", err)
		return result
	}

	batch := make([]Contract, 0, len(wires))
	for _, w := range wires {
		c, err := FromWire(w)
		if err != nil {
			s.log.Warn("skipping unmappable contract", "id", w.ID.Int(), "error", err)
			result.AddFailure(fmt.Sprintf("%d/%d", w.Numero.Int(), w.Ano.Int()), err.Error())
			continue
		}
		batch = append(batch, *c)
	}

	if len(batch) == 0 {
		return result
	}

	inserted, err := s.repo.CreateManySkipDuplicates(ctx, batch)
	if err != nil {
		s.log.Error("batch persist failed", "run_id", result.RunID, "size", len(batch), "error", err)
		keys := make([]string, len(batch))
		for i, c := range batch {
			keys[i] = c.Key().String()
		}
		result.AddBatch(keys, err)
		return result
	}

	result.TotalProcessed += len(batch)
	result.Successful += inserted

	s.log.Info("contracts synchronized",
		"run_id", result.RunID,
		"ano", ano,
		"fetched", len(batch),
		"inserted", inserted,
	)
	return result
}

// SyncOne mirrors a single contract by composite key.
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

func (s *Service) fetchCompleteAndPersist(ctx context.Context, key syncdom.NumeroAno) error {
	existing, err := s.repo.FindByNumeroAno(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("lookup contract %s: %w", key, err)
	}

	var w *Wire
	if existing != nil {
		w, err = s.fetch.GetByID(ctx, existing.ID)
	} else {
		w, err = s.fetch.GetByNumeroAno(ctx, key)
	}
	if err != nil {
		return fmt.Errorf("fetch contract %s: %w", key, err)
	}
	if w == nil {
		return fmt.Errorf("contract %s: %s", key, syncdom.MessageNotFound)
	}

	c, err := FromWire(*w)
	if err != nil {
		return err
	}

	if existing != nil {
		if err := s.repo.Update(ctx, c); err != nil {
			return fmt.Errorf("update contract %s: %w", key, err)
		}
		return nil
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("create contract %s: %w", key, err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int) (*Contract, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) (*ListResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	cs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contracts: %w", err)
	}

	return &ListResponse{Contratos: cs, Total: total}, nil
}

// Photo returns the cached signed-document photo, fetching and storing
// it on first access.
func (s *Service) Photo(ctx context.Context, id int) ([]byte, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(c.Photo) > 0 {
		return c.Photo, nil
	}

	photo, err := s.fetch.GetPhoto(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch contract photo %d: %w", id, err)
	}
	if len(photo) == 0 {
		return nil, fmt.Errorf("contract %d: %w", id, ErrPhotoMissing)
	}

	if err := s.repo.UpdatePhoto(ctx, id, photo); err != nil {
		return nil, fmt.Errorf("store contract photo %d: %w", id, err)
	}
	return photo, nil
}
