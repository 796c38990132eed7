package maintenance

import (
	"context"

	syncdom "sipacmirror/internal/domain/sync"
)

// Repository is the persistence contract for maintenance requisitions.
// Create writes the row and its material-requisition links in one
// transaction; Update replaces the link set wholesale.
type Repository interface {
	FindByID(ctx context.Context, id int) (*Requisition, error)
	FindByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*Requisition, error)
	Create(ctx context.Context, r *Requisition) error
	Update(ctx context.Context, r *Requisition) error
	// CreateManySkipDuplicates inserts requisition rows (without links)
	// atomically, skipping ids already present. Returns the number
	// inserted.
	CreateManySkipDuplicates(ctx context.Context, rs []Requisition) (int, error)
	List(ctx context.Context, limit, offset int) ([]Requisition, error)
	Count(ctx context.Context) (int, error)
}

// Fetcher is the remote side: the throttled SIPAC maintenance client.
type Fetcher interface {
	// ListRange fetches every requisition registered inside the date
	// range; the client applies the extended sync timeout.
	ListRange(ctx context.Context, rng Range) ([]Wire, error)
	// GetByNumeroAno fetches one requisition by its composite key; nil
	// with nil error means the remote has none.
	GetByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*Wire, error)
	// GetByID fetches one requisition by remote numeric id.
	GetByID(ctx context.Context, id int) (*Wire, error)
}
