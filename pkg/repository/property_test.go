package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/haus-labs/haus-agent/pkg/domain/interfaces"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/repository/firestore"
	"github.com/haus-labs/haus-agent/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func ptr[T any](v T) *T { return &v }

func runPropertyStoreTest(t *testing.T, newStore func(t *testing.T) interfaces.PropertyStore) {
	t.Helper()

	t.Run("Put then Get returns the record", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		id := model.PropertyID(fmt.Sprintf("prop-%d", time.Now().UnixNano()))
		rec := &model.PropertyRecord{
			ID:          id,
			Address:     "7 Harbour Lane, Manly NSW 2095",
			Suburb:      "Manly",
			Price:       2100000,
			Bedrooms:    4,
			Bathrooms:   2,
			Parking:     2,
			LandSize:    "600m²",
			Year:        2015,
			Features:    []string{"Harbour views", "Pool", "Garden", "Study"},
			Description: "Family home a short walk from the ferry.",
		}
		gt.NoError(t, store.Put(ctx, rec)).Required()

		got, err := store.Get(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(id)
		gt.Value(t, got.Address).Equal(rec.Address)
		gt.Value(t, got.Price).Equal(int64(2100000))
		gt.Value(t, got.Features).Equal(rec.Features)
		gt.Value(t, got.Year).Equal(2015)
	})

	t.Run("Get returns ErrPropertyNotFound for unknown ID", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(context.Background(), "unknown-id")
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, model.ErrPropertyNotFound)).True()
	})

	t.Run("Put rejects record without ID", func(t *testing.T) {
		store := newStore(t)
		gt.Error(t, store.Put(context.Background(), &model.PropertyRecord{Address: "nowhere"}))
	})

	t.Run("returned records are copies", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		id := model.PropertyID(fmt.Sprintf("prop-copy-%d", time.Now().UnixNano()))
		gt.NoError(t, store.Put(ctx, &model.PropertyRecord{ID: id, Features: []string{"Pool"}})).Required()

		first, err := store.Get(ctx, id)
		gt.NoError(t, err).Required()
		first.Features[0] = "changed"

		second, err := store.Get(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, second.Features[0]).Equal("Pool")
	})
}

func TestMemoryPropertyStore(t *testing.T) {
	runPropertyStoreTest(t, func(t *testing.T) interfaces.PropertyStore {
		return memory.NewPropertyInventory()
	})
}

func newFirestorePropertyStore(t *testing.T) *firestore.Firestore {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	store, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, store.Close())
	})
	return store
}

func TestFirestorePropertyStore(t *testing.T) {
	runPropertyStoreTest(t, func(t *testing.T) interfaces.PropertyStore {
		return newFirestorePropertyStore(t)
	})
}

func TestFirestorePropertySearch(t *testing.T) {
	store := newFirestorePropertyStore(t)
	ctx := context.Background()

	for _, rec := range []*model.PropertyRecord{
		{ID: "p-cheap", Suburb: "Coogee", PropertyType: "Apartment", Price: 700000, Bedrooms: 1},
		{ID: "p-mid", Suburb: "Coogee", PropertyType: "House", Price: 1400000, Bedrooms: 3},
		{ID: "p-top", Suburb: "Coogee", PropertyType: "House", Price: 1900000, Bedrooms: 4},
		{ID: "p-over", Suburb: "Coogee", PropertyType: "House", Price: 3500000, Bedrooms: 5},
		{ID: "p-elsewhere", Suburb: "Randwick", PropertyType: "House", Price: 1500000, Bedrooms: 3},
	} {
		gt.NoError(t, store.Put(ctx, rec)).Required()
	}

	t.Run("filters by suburb and budget, most expensive first", func(t *testing.T) {
		got, err := store.Search(ctx, model.PropertyFilter{
			Location:  " coogee ",
			BudgetMax: ptr(int64(2000000)),
			Bedrooms:  ptr(3),
		})
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(2).Required()
		gt.Value(t, got[0].ID).Equal(model.PropertyID("p-top"))
		gt.Value(t, got[1].ID).Equal(model.PropertyID("p-mid"))
	})

	t.Run("filters by property type", func(t *testing.T) {
		got, err := store.Search(ctx, model.PropertyFilter{Location: "Coogee", PropertyType: "apartment"})
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(1).Required()
		gt.Value(t, got[0].ID).Equal(model.PropertyID("p-cheap"))
	})

	t.Run("unknown suburb returns nothing", func(t *testing.T) {
		got, err := store.Search(ctx, model.PropertyFilter{Location: "Atlantis"})
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(0)
	})
}

func TestMemoryPropertySearch(t *testing.T) {
	inv := memory.NewPropertyInventory()
	ctx := context.Background()

	t.Run("defaults when filter is bare", func(t *testing.T) {
		got, err := inv.Search(ctx, model.PropertyFilter{Location: "Bondi"})
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(2).Required()

		gt.Value(t, got[0].ID).Equal(model.PropertyID("prop-001"))
		gt.Value(t, got[0].Title).Equal("3 Bedroom House in Bondi")
		gt.Value(t, got[0].Address).Equal("3 Bedroom House in Bondi")
		gt.Value(t, got[0].Price).Equal(int64(1500000))
		gt.Value(t, got[0].Bedrooms).Equal(3)

		gt.Value(t, got[1].ID).Equal(model.PropertyID("prop-002"))
		gt.Value(t, got[1].Title).Equal("2 Bedroom Apartment in Bondi")
		gt.Value(t, got[1].Address).Equal("2 Bedroom Apartment in Bondi")
		gt.Value(t, got[1].Price).Equal(int64(800000))
		gt.Value(t, got[1].Bedrooms).Equal(2)
	})

	t.Run("second candidate is priced below the budget ceiling", func(t *testing.T) {
		got, err := inv.Search(ctx, model.PropertyFilter{
			Location:     "Manly",
			BudgetMax:    ptr(int64(1200000)),
			Bedrooms:     ptr(4),
			PropertyType: "Townhouse",
		})
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(2).Required()
		gt.Value(t, got[0].Title).Equal("4 Bedroom Townhouse in Manly")
		gt.Value(t, got[0].Address).Equal("4 Bedroom Townhouse in Manly")
		gt.Value(t, got[0].Price).Equal(int64(1200000))
		gt.Value(t, got[1].Price).Equal(int64(1000000))
		gt.Value(t, got[1].Bedrooms).Equal(4)
	})

	t.Run("sample table is served by Get", func(t *testing.T) {
		rec, err := inv.Get(ctx, "prop-001")
		gt.NoError(t, err).Required()
		gt.Value(t, rec.Address).Equal("42 Ocean Street, Bondi Beach NSW 2026")
		gt.Array(t, rec.Features).Length(4)

		all, err := inv.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(2)
	})
}
