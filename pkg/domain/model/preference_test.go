package model_test

import (
	"testing"

	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestParseSuburb(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantSuburb string
		wantState  string
	}{
		{name: "suburb with state", value: "Bondi, NSW", wantSuburb: "Bondi", wantState: "NSW"},
		{name: "suburb without state", value: "Bondi", wantSuburb: "Bondi", wantState: "NSW"},
		{name: "other state", value: "Fitzroy, VIC", wantSuburb: "Fitzroy", wantState: "VIC"},
		{name: "comma without space is not a separator", value: "Manly,NSW", wantSuburb: "Manly,NSW", wantState: "NSW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suburb, state := model.ParseSuburb(tt.value, model.DefaultSuburbState)
			gt.Value(t, suburb).Equal(tt.wantSuburb)
			gt.Value(t, state).Equal(tt.wantState)
		})
	}
}

func TestPreferenceMetadata_IsZero(t *testing.T) {
	gt.Bool(t, model.PreferenceMetadata{}.IsZero()).True()
	gt.Bool(t, model.PreferenceMetadata{Reason: model.PreferenceReasonStated}.IsZero()).False()
}
