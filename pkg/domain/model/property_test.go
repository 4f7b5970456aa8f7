package model_test

import (
	"testing"

	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestPropertyRecordCopy(t *testing.T) {
	orig := &model.PropertyRecord{
		ID:       "prop-001",
		Price:    1500000,
		Features: []string{"Ocean views", "Modern kitchen"},
	}

	copied := orig.Copy()
	copied.Features[0] = "changed"
	copied.Price = 1

	gt.Value(t, orig.Features[0]).Equal("Ocean views")
	gt.Value(t, orig.Price).Equal(int64(1500000))

	var nilRecord *model.PropertyRecord
	gt.Value(t, nilRecord.Copy()).Nil()
}
