package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/haus-labs/haus-agent/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Tuning holds the CLI flag pointing at the optional tuning file
type Tuning struct {
	path string
}

// Flags returns CLI flags for tuning configuration
func (t *Tuning) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tuning-config",
			Category:    "Agent",
			Usage:       "Path to a TOML file overriding mediator limits, preference confidences and timeouts",
			Sources:     cli.EnvVars("HAUS_TUNING_CONFIG"),
			Destination: &t.path,
		},
	}
}

func (t Tuning) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", t.path))
}

// tuningFile is the TOML layout. Absent keys keep their defaults.
type tuningFile struct {
	Mediator struct {
		RecallLimit      *int `toml:"recall_limit"`
		SuburbLimit      *int `toml:"suburb_limit"`
		FactLimit        *int `toml:"fact_limit"`
		InteractionLimit *int `toml:"interaction_limit"`
	} `toml:"mediator"`

	Preference struct {
		PositiveConfidence *int    `toml:"positive_confidence"`
		NegativeConfidence *int    `toml:"negative_confidence"`
		DefaultState       *string `toml:"default_state"`
	} `toml:"preference"`

	Memory struct {
		Timeout *string `toml:"timeout"`
	} `toml:"memory"`

	Dispatch struct {
		MaxInFlight *int64  `toml:"max_in_flight"`
		DrainGrace  *string `toml:"drain_grace"`
	} `toml:"dispatch"`
}

// Configure returns the defaults overlaid with the tuning file, if one is set.
func (t *Tuning) Configure() (config.Tuning, error) {
	if t.path == "" {
		return config.DefaultTuning(), nil
	}

	raw, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Tuning{}, goerr.Wrap(ErrConfigNotFound, "tuning file not found", goerr.V(ConfigPathKey, t.path))
		}
		return config.Tuning{}, goerr.Wrap(err, "failed to read tuning file", goerr.V(ConfigPathKey, t.path))
	}

	return ParseTuning(raw)
}

// ParseTuning decodes a TOML tuning document over config.DefaultTuning.
func ParseTuning(raw []byte) (config.Tuning, error) {
	var file tuningFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return config.Tuning{}, goerr.Wrap(ErrInvalidConfig, "failed to parse tuning file", goerr.V("error", err.Error()))
	}

	tuning := config.DefaultTuning()

	setInt(&tuning.Mediator.RecallLimit, file.Mediator.RecallLimit)
	setInt(&tuning.Mediator.SuburbLimit, file.Mediator.SuburbLimit)
	setInt(&tuning.Mediator.FactLimit, file.Mediator.FactLimit)
	setInt(&tuning.Mediator.InteractionLimit, file.Mediator.InteractionLimit)
	setInt(&tuning.Confidence.Positive, file.Preference.PositiveConfidence)
	setInt(&tuning.Confidence.Negative, file.Preference.NegativeConfidence)
	if file.Preference.DefaultState != nil {
		tuning.DefaultState = *file.Preference.DefaultState
	}
	if file.Dispatch.MaxInFlight != nil {
		tuning.Dispatch.MaxInFlight = *file.Dispatch.MaxInFlight
	}

	if err := setDuration(&tuning.MemoryClient.Timeout, file.Memory.Timeout, "memory.timeout"); err != nil {
		return config.Tuning{}, err
	}
	if err := setDuration(&tuning.Dispatch.DrainGrace, file.Dispatch.DrainGrace, "dispatch.drain_grace"); err != nil {
		return config.Tuning{}, err
	}

	if err := validateTuning(tuning); err != nil {
		return config.Tuning{}, err
	}
	return tuning, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return goerr.Wrap(ErrInvalidConfig, "invalid duration", goerr.V("key", key), goerr.V("value", *v))
	}
	*dst = d
	return nil
}

func validateTuning(t config.Tuning) error {
	limits := map[string]int{
		"mediator.recall_limit":      t.Mediator.RecallLimit,
		"mediator.suburb_limit":      t.Mediator.SuburbLimit,
		"mediator.fact_limit":        t.Mediator.FactLimit,
		"mediator.interaction_limit": t.Mediator.InteractionLimit,
	}
	for key, v := range limits {
		if v <= 0 {
			return goerr.Wrap(ErrInvalidConfig, "limit must be positive", goerr.V("key", key), goerr.V("value", v))
		}
	}

	for key, v := range map[string]int{
		"preference.positive_confidence": t.Confidence.Positive,
		"preference.negative_confidence": t.Confidence.Negative,
	} {
		if v < 0 || v > 100 {
			return goerr.Wrap(ErrInvalidConfig, "confidence must be within 0-100", goerr.V("key", key), goerr.V("value", v))
		}
	}

	if t.MemoryClient.Timeout <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "memory.timeout must be positive")
	}
	if t.Dispatch.MaxInFlight <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "dispatch.max_in_flight must be positive")
	}
	return nil
}
