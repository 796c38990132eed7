package contract

import (
	"context"

	syncdom "sipacmirror/internal/domain/sync"
)

// Repository is the persistence contract for contracts.
type Repository interface {
	FindByID(ctx context.Context, id int) (*Contract, error)
	FindByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*Contract, error)
	Create(ctx context.Context, c *Contract) error
	Update(ctx context.Context, c *Contract) error
	// CreateManySkipDuplicates inserts a batch atomically, skipping
	// rows whose remote id already exists. Returns the number inserted.
	CreateManySkipDuplicates(ctx context.Context, cs []Contract) (int, error)
	// UpdatePhoto stores a fetched photo and stamps photo_fetched_at.
	UpdatePhoto(ctx context.Context, id int, photo []byte) error
	List(ctx context.Context, limit, offset int) ([]Contract, error)
	Count(ctx context.Context) (int, error)
}

// Fetcher is the remote side: the throttled scrape-gateway client.
type Fetcher interface {
	// ListYear fetches every contract registered in the given year; the
	// client applies the extended sync timeout.
	ListYear(ctx context.Context, ano int) ([]Wire, error)
	// GetByNumeroAno fetches one contract by its composite key; nil
	// with nil error means the remote has none.
	GetByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*Wire, error)
	// GetByID fetches one contract by remote numeric id.
	GetByID(ctx context.Context, id int) (*Wire, error)
	// GetPhoto fetches the signed-document photo bytes; nil with nil
	// error means the remote has none.
	GetPhoto(ctx context.Context, id int) ([]byte, error)
}
