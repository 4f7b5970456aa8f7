package model_test

import (
	"encoding/json"
	"testing"

	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestNewSessionID(t *testing.T) {
	id1 := model.NewSessionID()
	id2 := model.NewSessionID()

	gt.Value(t, string(id1)).NotEqual("")
	gt.Value(t, id1).NotEqual(id2)
}

func TestRecallResult_Normalize(t *testing.T) {
	t.Run("missing fields become empty sequences", func(t *testing.T) {
		var result model.RecallResult
		gt.NoError(t, json.Unmarshal([]byte(`{"facts":[{"fact":"has a dog","confidence":90}]}`), &result)).Required()
		result.Normalize()

		gt.Array(t, result.Facts).Length(1)
		gt.Bool(t, result.Memories != nil).True()
		gt.Bool(t, result.SuburbPreferences != nil).True()
		gt.Bool(t, result.PropertyInteractions != nil).True()
		gt.Array(t, result.Memories).Length(0)
		gt.Array(t, result.SuburbPreferences).Length(0)
		gt.Array(t, result.PropertyInteractions).Length(0)
	})

	t.Run("empty result", func(t *testing.T) {
		result := model.NewEmptyRecallResult()
		gt.Bool(t, result.IsEmpty()).True()
		gt.Array(t, result.Facts).Length(0)
		gt.Array(t, result.PropertyInteractions).Length(0)
	})

	t.Run("decodes service field names", func(t *testing.T) {
		body := `{
			"memories": [{"content": "asked about Bondi"}],
			"suburbPreferences": [{"suburbName": "Bondi", "preferenceScore": 0.9}],
			"propertyInteractions": [{"propertyId": "prop-001", "interactionType": "viewed"}]
		}`
		var result model.RecallResult
		gt.NoError(t, json.Unmarshal([]byte(body), &result)).Required()

		gt.Bool(t, result.IsEmpty()).False()
		gt.Value(t, result.SuburbPreferences[0].SuburbName).Equal("Bondi")
		gt.Value(t, result.SuburbPreferences[0].PreferenceScore).Equal(0.9)
		gt.Value(t, result.PropertyInteractions[0].PropertyID).Equal(model.PropertyID("prop-001"))
		gt.Array(t, result.Memories).Length(1)
	})
}
