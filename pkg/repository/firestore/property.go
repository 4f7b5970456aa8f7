package firestore

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// scanLimit bounds how many listings of one suburb are read per search before
// filtering in process.
const scanLimit = 200

type propertyDocument struct {
	ID           string    `firestore:"id"`
	Title        string    `firestore:"title"`
	Address      string    `firestore:"address"`
	Suburb       string    `firestore:"suburb"`
	LocationKey  string    `firestore:"location_key"`
	PropertyType string    `firestore:"property_type"`
	Price        int64     `firestore:"price"`
	Bedrooms     int       `firestore:"bedrooms"`
	Bathrooms    int       `firestore:"bathrooms"`
	Parking      int       `firestore:"parking"`
	LandSize     string    `firestore:"land_size"`
	Year         int       `firestore:"year"`
	Features     []string  `firestore:"features"`
	Description  string    `firestore:"description"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

type propertyRepository struct {
	client           *firestore.Client
	collectionPrefix string
	maxResults       int
}

func newPropertyRepository(client *firestore.Client) *propertyRepository {
	return &propertyRepository{
		client:     client,
		maxResults: DefaultMaxResults,
	}
}

func (r *propertyRepository) propertiesCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_properties"
	}
	return "properties"
}

func locationKey(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

func propertyToDocument(rec *model.PropertyRecord) *propertyDocument {
	return &propertyDocument{
		ID:           string(rec.ID),
		Title:        rec.Title,
		Address:      rec.Address,
		Suburb:       rec.Suburb,
		LocationKey:  locationKey(rec.Suburb),
		PropertyType: rec.PropertyType,
		Price:        rec.Price,
		Bedrooms:     rec.Bedrooms,
		Bathrooms:    rec.Bathrooms,
		Parking:      rec.Parking,
		LandSize:     rec.LandSize,
		Year:         rec.Year,
		Features:     append([]string(nil), rec.Features...),
		Description:  rec.Description,
		UpdatedAt:    time.Now().UTC(),
	}
}

func propertyToModel(doc *propertyDocument) *model.PropertyRecord {
	return &model.PropertyRecord{
		ID:           model.PropertyID(doc.ID),
		Title:        doc.Title,
		Address:      doc.Address,
		Suburb:       doc.Suburb,
		PropertyType: doc.PropertyType,
		Price:        doc.Price,
		Bedrooms:     doc.Bedrooms,
		Bathrooms:    doc.Bathrooms,
		Parking:      doc.Parking,
		LandSize:     doc.LandSize,
		Year:         doc.Year,
		Features:     doc.Features,
		Description:  doc.Description,
	}
}

// matches applies the filter fields Firestore cannot combine in one query.
func matches(doc *propertyDocument, filter model.PropertyFilter) bool {
	if filter.BudgetMin != nil && doc.Price < *filter.BudgetMin {
		return false
	}
	if filter.BudgetMax != nil && doc.Price > *filter.BudgetMax {
		return false
	}
	if filter.Bedrooms != nil && doc.Bedrooms < *filter.Bedrooms {
		return false
	}
	if filter.PropertyType != "" && !strings.EqualFold(doc.PropertyType, filter.PropertyType) {
		return false
	}
	return true
}

func (f *Firestore) Search(ctx context.Context, filter model.PropertyFilter) ([]*model.PropertyRecord, error) {
	return f.properties.Search(ctx, filter)
}

func (f *Firestore) Get(ctx context.Context, id model.PropertyID) (*model.PropertyRecord, error) {
	return f.properties.Get(ctx, id)
}

func (f *Firestore) Put(ctx context.Context, rec *model.PropertyRecord) error {
	return f.properties.Put(ctx, rec)
}

func (f *Firestore) List(ctx context.Context) ([]*model.PropertyRecord, error) {
	return f.properties.List(ctx)
}

// Search returns listings in the filter's suburb, most expensive first, so the
// top match is the one closest to the stated budget ceiling.
func (r *propertyRepository) Search(ctx context.Context, filter model.PropertyFilter) ([]*model.PropertyRecord, error) {
	key := locationKey(filter.Location)
	iter := r.client.Collection(r.propertiesCollection()).
		Where("location_key", "==", key).
		Limit(scanLimit).
		Documents(ctx)
	defer iter.Stop()

	var docs []*propertyDocument
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate properties", goerr.V("location", filter.Location))
		}

		var doc propertyDocument
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode property", goerr.V("doc_id", docSnap.Ref.ID))
		}
		if matches(&doc, filter) {
			docs = append(docs, &doc)
		}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Price != docs[j].Price {
			return docs[i].Price > docs[j].Price
		}
		if docs[i].Bedrooms != docs[j].Bedrooms {
			return docs[i].Bedrooms > docs[j].Bedrooms
		}
		return docs[i].ID < docs[j].ID
	})

	if len(docs) > r.maxResults {
		docs = docs[:r.maxResults]
	}

	records := make([]*model.PropertyRecord, len(docs))
	for i, doc := range docs {
		records[i] = propertyToModel(doc)
	}
	return records, nil
}

func (r *propertyRepository) Get(ctx context.Context, id model.PropertyID) (*model.PropertyRecord, error) {
	docSnap, err := r.client.Collection(r.propertiesCollection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrPropertyNotFound, "property not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get property", goerr.V("id", id))
	}

	var doc propertyDocument
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode property", goerr.V("id", id))
	}

	return propertyToModel(&doc), nil
}

func (r *propertyRepository) Put(ctx context.Context, rec *model.PropertyRecord) error {
	if rec == nil || rec.ID == "" {
		return goerr.New("property ID is required")
	}

	doc := propertyToDocument(rec)
	if _, err := r.client.Collection(r.propertiesCollection()).Doc(doc.ID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put property", goerr.V("id", rec.ID))
	}
	return nil
}

func (r *propertyRepository) List(ctx context.Context) ([]*model.PropertyRecord, error) {
	iter := r.client.Collection(r.propertiesCollection()).Documents(ctx)
	defer iter.Stop()

	records := make([]*model.PropertyRecord, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate properties")
		}

		var doc propertyDocument
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode property", goerr.V("doc_id", docSnap.Ref.ID))
		}
		records = append(records, propertyToModel(&doc))
	}

	return records, nil
}
