package model

import "encoding/json"

// RecallResult is the context bundle returned by the memory service for a query.
// Each sequence is independently optional; Normalize turns missing ones into
// empty slices so that callers can range over them without nil checks.
type RecallResult struct {
	Memories             []json.RawMessage     `json:"memories"`
	Facts                []Fact                `json:"facts"`
	SuburbPreferences    []SuburbPreference    `json:"suburbPreferences"`
	PropertyInteractions []PropertyInteraction `json:"propertyInteractions"`
}

// Fact is a statement the memory service learned about the caller.
// Confidence is a percentage in the range 0-100.
type Fact struct {
	Fact       string  `json:"fact"`
	Confidence float64 `json:"confidence"`
}

// SuburbPreference is a ranked suburb with its preference score.
type SuburbPreference struct {
	SuburbName      string  `json:"suburbName"`
	PreferenceScore float64 `json:"preferenceScore"`
}

// PropertyInteraction records that the caller interacted with a property.
type PropertyInteraction struct {
	PropertyID      PropertyID `json:"propertyId"`
	InteractionType string     `json:"interactionType"`
}

// NewEmptyRecallResult returns a RecallResult with all four sequences empty.
func NewEmptyRecallResult() *RecallResult {
	return (&RecallResult{}).Normalize()
}

// Normalize replaces nil sequences with empty ones and returns x.
func (x *RecallResult) Normalize() *RecallResult {
	if x.Memories == nil {
		x.Memories = []json.RawMessage{}
	}
	if x.Facts == nil {
		x.Facts = []Fact{}
	}
	if x.SuburbPreferences == nil {
		x.SuburbPreferences = []SuburbPreference{}
	}
	if x.PropertyInteractions == nil {
		x.PropertyInteractions = []PropertyInteraction{}
	}
	return x
}

// IsEmpty reports whether the result carries nothing worth injecting.
func (x *RecallResult) IsEmpty() bool {
	return len(x.Memories) == 0 && len(x.Facts) == 0 &&
		len(x.SuburbPreferences) == 0 && len(x.PropertyInteractions) == 0
}

// ConversationRecord is one remembered exchange, optionally tied to a property.
type ConversationRecord struct {
	UserQuery       string
	AgentResponse   string
	PropertyID      PropertyID
	PropertyContext *PropertyRecord
}
