package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/haus-labs/haus-agent/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultMaxResults caps how many candidates Search returns.
const DefaultMaxResults = 5

// Firestore is the PropertyStore backed by a Firestore collection of listings.
type Firestore struct {
	client     *firestore.Client
	properties *propertyRepository
}

var _ interfaces.PropertyStore = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces the listing collection, e.g. for tests.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.properties.collectionPrefix = prefix
	}
}

// WithMaxResults overrides DefaultMaxResults. Values below 1 are ignored.
func WithMaxResults(n int) Option {
	return func(f *Firestore) {
		if n > 0 {
			f.properties.maxResults = n
		}
	}
}

// New connects to the given Firestore database. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{
		client:     client,
		properties: newPropertyRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
