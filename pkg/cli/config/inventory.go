package config

import (
	"context"
	"log/slog"

	"github.com/haus-labs/haus-agent/pkg/domain/interfaces"
	"github.com/haus-labs/haus-agent/pkg/repository/firestore"
	"github.com/haus-labs/haus-agent/pkg/repository/memory"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	InventoryBackendMemory    = "memory"
	InventoryBackendFirestore = "firestore"
)

// Inventory holds CLI flags for the property inventory backend
type Inventory struct {
	backend    string
	projectID  string
	databaseID string
	maxResults int
}

// Flags returns CLI flags for inventory configuration
func (i *Inventory) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "inventory-backend",
			Category:    "Inventory",
			Usage:       "Property inventory backend (memory or firestore)",
			Value:       InventoryBackendMemory,
			Sources:     cli.EnvVars("HAUS_INVENTORY_BACKEND"),
			Destination: &i.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Category:    "Inventory",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("HAUS_FIRESTORE_PROJECT_ID"),
			Destination: &i.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Category:    "Inventory",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("HAUS_FIRESTORE_DATABASE_ID"),
			Destination: &i.databaseID,
		},
		&cli.IntFlag{
			Name:        "inventory-max-results",
			Category:    "Inventory",
			Usage:       "Maximum candidates returned by a Firestore search",
			Value:       firestore.DefaultMaxResults,
			Sources:     cli.EnvVars("HAUS_INVENTORY_MAX_RESULTS"),
			Destination: &i.maxResults,
		},
	}
}

func (i Inventory) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", i.backend),
		slog.String("project_id", i.projectID),
		slog.String("database_id", i.databaseID),
	)
}

// Persistent reports whether listings written to the inventory outlive the process.
func (i *Inventory) Persistent() bool {
	return i.backend == InventoryBackendFirestore
}

// Configure opens the configured inventory. The caller must Close it.
func (i *Inventory) Configure(ctx context.Context) (interfaces.PropertyStore, error) {
	switch i.backend {
	case InventoryBackendFirestore:
		if i.projectID == "" {
			return nil, goerr.Wrap(ErrMissingConfig, "firestore-project-id is required when using firestore backend")
		}
		store, err := firestore.New(ctx, i.projectID, i.databaseID, firestore.WithMaxResults(i.maxResults))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore inventory")
		}
		logging.Default().Info("Using Firestore inventory",
			"project_id", i.projectID,
			"database_id", i.databaseID,
		)
		return store, nil

	case InventoryBackendMemory, "":
		logging.Default().Info("Using in-memory sample inventory")
		return memory.NewPropertyInventory(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid inventory backend", goerr.V(BackendKey, i.backend))
	}
}
