package model

import "github.com/m-mizutani/goerr/v2"

// ErrPropertyNotFound is returned by property providers for unknown IDs.
var ErrPropertyNotFound = goerr.New("property not found")

type PropertyID string

// PropertyRecord is a listing as presented to the caller.
type PropertyRecord struct {
	ID           PropertyID `json:"id"`
	Title        string     `json:"title,omitempty"`
	Address      string     `json:"address,omitempty"`
	Suburb       string     `json:"suburb,omitempty"`
	PropertyType string     `json:"propertyType,omitempty"`
	Price        int64      `json:"price"`
	Bedrooms     int        `json:"bedrooms"`
	Bathrooms    int        `json:"bathrooms"`
	Parking      int        `json:"parking,omitempty"`
	LandSize     string     `json:"landsize,omitempty"`
	Year         int        `json:"year,omitempty"`
	Features     []string   `json:"features,omitempty"`
	Description  string     `json:"description"`
}

// PropertyFilter holds the search criteria collected from the caller.
// Nil pointers mean "not specified".
type PropertyFilter struct {
	Location     string
	BudgetMin    *int64
	BudgetMax    *int64
	Bedrooms     *int
	PropertyType string
}

// Copy returns a deep copy so callers cannot mutate a provider's table.
func (x *PropertyRecord) Copy() *PropertyRecord {
	if x == nil {
		return nil
	}
	copied := *x
	if x.Features != nil {
		copied.Features = append([]string(nil), x.Features...)
	}
	return &copied
}
