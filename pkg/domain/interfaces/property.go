package interfaces

import (
	"context"

	"github.com/haus-labs/haus-agent/pkg/domain/model"
)

// PropertyProvider is the inventory behind the property tools.
type PropertyProvider interface {
	// Search returns ranked candidates for filter, best match first.
	Search(ctx context.Context, filter model.PropertyFilter) ([]*model.PropertyRecord, error)

	// Get returns the record for id, or an error wrapping model.ErrPropertyNotFound.
	Get(ctx context.Context, id model.PropertyID) (*model.PropertyRecord, error)

	Close() error
}

// PropertyStore is a PropertyProvider that can also be loaded with listings.
type PropertyStore interface {
	PropertyProvider
	Put(ctx context.Context, rec *model.PropertyRecord) error
	List(ctx context.Context) ([]*model.PropertyRecord, error)
}
