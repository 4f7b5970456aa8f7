package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/haus-labs/haus-agent/pkg/domain/interfaces"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	fallbackTopPrice      int64 = 1500000
	fallbackSecondBudget  int64 = 1000000
	secondCandidateOffset int64 = 200000
	fallbackTopBedrooms         = 3
	fallbackSecondBedroom       = 2
	fallbackPropertyType        = "House"
)

// SampleProperties returns the built-in listing table used in development.
func SampleProperties() []*model.PropertyRecord {
	return []*model.PropertyRecord{
		{
			ID:           "prop-001",
			Address:      "42 Ocean Street, Bondi Beach NSW 2026",
			Suburb:       "Bondi Beach",
			PropertyType: "House",
			Price:        1500000,
			Bedrooms:     3,
			Bathrooms:    2,
			Parking:      1,
			LandSize:     "450m²",
			Year:         2020,
			Features:     []string{"Ocean views", "Modern kitchen", "Air conditioning", "Close to beach"},
			Description:  "Stunning modern home with breathtaking ocean views. Recently renovated with premium finishes throughout.",
		},
		{
			ID:           "prop-002",
			Address:      "15 Beach Road, Bondi Beach NSW 2026",
			Suburb:       "Bondi Beach",
			PropertyType: "Apartment",
			Price:        800000,
			Bedrooms:     2,
			Bathrooms:    1,
			Parking:      1,
			LandSize:     "120m²",
			Year:         2019,
			Features:     []string{"New kitchen", "Floorboards", "North facing"},
			Description:  "Chic apartment in prime location, moments from the beach.",
		},
	}
}

// PropertyInventory is an in-process PropertyProvider. Get serves a fixed
// table; Search synthesizes two candidates from the filter.
type PropertyInventory struct {
	mu      sync.RWMutex
	records map[model.PropertyID]*model.PropertyRecord
}

var _ interfaces.PropertyStore = &PropertyInventory{}

// NewPropertyInventory creates an inventory holding records, or SampleProperties when none are given.
func NewPropertyInventory(records ...*model.PropertyRecord) *PropertyInventory {
	if len(records) == 0 {
		records = SampleProperties()
	}
	inv := &PropertyInventory{
		records: make(map[model.PropertyID]*model.PropertyRecord, len(records)),
	}
	for _, rec := range records {
		inv.records[rec.ID] = rec.Copy()
	}
	return inv
}

// Search returns two ranked candidates shaped by filter. The top candidate
// takes the requested bedrooms and type, priced at the budget ceiling; the
// second is an apartment priced below it.
func (x *PropertyInventory) Search(ctx context.Context, filter model.PropertyFilter) ([]*model.PropertyRecord, error) {
	topBedrooms, secondBedrooms := fallbackTopBedrooms, fallbackSecondBedroom
	if filter.Bedrooms != nil {
		topBedrooms, secondBedrooms = *filter.Bedrooms, *filter.Bedrooms
	}

	propertyType := filter.PropertyType
	if propertyType == "" {
		propertyType = fallbackPropertyType
	}

	topPrice, secondPrice := fallbackTopPrice, fallbackSecondBudget-secondCandidateOffset
	if filter.BudgetMax != nil {
		topPrice = *filter.BudgetMax
		secondPrice = *filter.BudgetMax - secondCandidateOffset
	}
	if secondPrice < 0 {
		secondPrice = 0
	}

	return []*model.PropertyRecord{
		{
			ID:           "prop-001",
			Address:      fmt.Sprintf("%d Bedroom %s in %s", topBedrooms, propertyType, filter.Location),
			Title:        fmt.Sprintf("%d Bedroom %s in %s", topBedrooms, propertyType, filter.Location),
			Suburb:       filter.Location,
			PropertyType: propertyType,
			Price:        topPrice,
			Bedrooms:     topBedrooms,
			Bathrooms:    2,
			Description:  "Modern property with great natural light",
		},
		{
			ID:           "prop-002",
			Address:      fmt.Sprintf("%d Bedroom Apartment in %s", secondBedrooms, filter.Location),
			Title:        fmt.Sprintf("%d Bedroom Apartment in %s", secondBedrooms, filter.Location),
			Suburb:       filter.Location,
			PropertyType: "Apartment",
			Price:        secondPrice,
			Bedrooms:     secondBedrooms,
			Bathrooms:    1,
			Description:  "Recently renovated with new kitchen",
		},
	}, nil
}

// Get returns a copy of the record for id.
func (x *PropertyInventory) Get(ctx context.Context, id model.PropertyID) (*model.PropertyRecord, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	rec, ok := x.records[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrPropertyNotFound, "property not in inventory", goerr.V("id", id))
	}
	return rec.Copy(), nil
}

// Put adds or replaces a record.
func (x *PropertyInventory) Put(ctx context.Context, rec *model.PropertyRecord) error {
	if rec == nil || rec.ID == "" {
		return goerr.New("property ID is required")
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.records[rec.ID] = rec.Copy()
	return nil
}

// List returns every record in the table.
func (x *PropertyInventory) List(ctx context.Context) ([]*model.PropertyRecord, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	records := make([]*model.PropertyRecord, 0, len(x.records))
	for _, rec := range x.records {
		records = append(records, rec.Copy())
	}
	return records, nil
}

func (x *PropertyInventory) Close() error {
	return nil
}
