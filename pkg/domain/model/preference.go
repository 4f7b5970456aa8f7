package model

import "strings"

const (
	// PreferenceCategorySuburb is decomposed into suburb name and state.
	PreferenceCategorySuburb = "suburb"

	// DefaultSuburbState is used when a suburb preference names no state.
	DefaultSuburbState = "NSW"

	// PreferenceReasonStated marks a preference the caller said out loud.
	PreferenceReasonStated = "User stated this directly"

	suburbSeparator = ", "
)

// Preference is a like or dislike learned during a call.
type Preference struct {
	Category   string
	Value      string
	Confidence int
	IsPositive bool
	Metadata   PreferenceMetadata
}

// PreferenceMetadata is the free-form provenance attached to a stored preference.
type PreferenceMetadata struct {
	MentionedInQuery string `json:"mentionedInQuery,omitempty"`
	SuburbName       string `json:"suburbName,omitempty"`
	State            string `json:"state,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// IsZero reports whether no metadata field is set.
func (x PreferenceMetadata) IsZero() bool {
	return x == PreferenceMetadata{}
}

// ParseSuburb splits "Bondi, NSW" into ("Bondi", "NSW"). When no separator is
// present the whole value is the suburb and defaultState is returned.
func ParseSuburb(value, defaultState string) (suburb, state string) {
	parts := strings.Split(value, suburbSeparator)
	if len(parts) > 1 {
		return parts[0], parts[1]
	}
	return parts[0], defaultState
}
