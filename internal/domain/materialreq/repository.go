package materialreq

import (
	"context"

	syncdom "sipacmirror/internal/domain/sync"
)

// Repository is the persistence contract for material requisitions.
// Create writes the requisition and its children in one transaction;
// Update replaces the child collections wholesale (delete then
// reinsert) since the remote detail payload is the source of truth.
type Repository interface {
	FindByID(ctx context.Context, id int) (*Requisition, error)
	FindByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*Requisition, error)
	Create(ctx context.Context, r *Requisition) error
	Update(ctx context.Context, r *Requisition) error
	// CreateManySkipDuplicates inserts requisition rows (without
	// children) atomically, skipping ids already present. Returns the
	// number inserted.
	CreateManySkipDuplicates(ctx context.Context, rs []Requisition) (int, error)
	List(ctx context.Context, limit, offset int) ([]Requisition, error)
	Count(ctx context.Context) (int, error)
}

// Fetcher is the remote side: the throttled SIPAC requisitions client.
type Fetcher interface {
	// ListRange fetches every requisition registered inside the date
	// range. Large ranges are slow; the client applies the extended
	// sync timeout.
	ListRange(ctx context.Context, rng Range) ([]Wire, error)
	// GetByNumeroAno fetches the full detail for one requisition by its
	// composite key; nil with nil error means the remote has none.
	GetByNumeroAno(ctx context.Context, key syncdom.NumeroAno) (*Wire, error)
	// GetByID fetches the full detail by remote numeric id.
	GetByID(ctx context.Context, id int) (*Wire, error)
}
