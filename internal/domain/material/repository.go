package material

import "context"

// Repository is the narrow persistence contract for materials.
type Repository interface {
	FindByID(ctx context.Context, id int) (*Material, error)
	FindByCodigo(ctx context.Context, codigo string) (*Material, error)
	Create(ctx context.Context, m *Material) error
	Update(ctx context.Context, m *Material) error
	// CreateManySkipDuplicates inserts a batch atomically, skipping rows
	// whose remote id already exists. Returns the number inserted.
	CreateManySkipDuplicates(ctx context.Context, ms []Material) (int, error)
	List(ctx context.Context, limit, offset int) ([]Material, error)
	Count(ctx context.Context) (int, error)
}

// Fetcher is the remote side: the throttled SIPAC materials client.
type Fetcher interface {
	// ListPage fetches one page of the remote listing.
	ListPage(ctx context.Context, filter ListFilter, page int) (*Page, error)
	// GetByCodigo fetches one material by its catalog code; a nil Wire
	// with nil error means the remote has no such material.
	GetByCodigo(ctx context.Context, codigo string) (*Wire, error)
}
