package config

import "time"

// MediatorLimits bounds how much recalled memory is injected per turn.
type MediatorLimits struct {
	RecallLimit      int
	SuburbLimit      int
	FactLimit        int
	InteractionLimit int
}

// PreferenceConfidence holds the confidence recorded for stated preferences.
type PreferenceConfidence struct {
	Positive int
	Negative int
}

// MemoryClient holds the shared request budget for the memory service.
type MemoryClient struct {
	Timeout time.Duration
}

// Dispatch controls detached memory writes.
type Dispatch struct {
	MaxInFlight int64
	DrainGrace  time.Duration
}

// Tuning is the read-only set of tunables shared by every call.
type Tuning struct {
	Mediator     MediatorLimits
	Confidence   PreferenceConfidence
	DefaultState string
	MemoryClient MemoryClient
	Dispatch     Dispatch
}

// DefaultTuning returns the values used when no tuning file is given.
func DefaultTuning() Tuning {
	return Tuning{
		Mediator: MediatorLimits{
			RecallLimit:      10,
			SuburbLimit:      5,
			FactLimit:        5,
			InteractionLimit: 3,
		},
		Confidence: PreferenceConfidence{
			Positive: 80,
			Negative: 70,
		},
		DefaultState: "NSW",
		MemoryClient: MemoryClient{
			Timeout: 30 * time.Second,
		},
		Dispatch: Dispatch{
			MaxInFlight: 32,
			DrainGrace:  10 * time.Second,
		},
	}
}
