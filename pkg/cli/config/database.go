package config

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/repository"
	"github.com/urfave/cli/v3"
)

const (
	backendAuto      = "auto"
	backendMemory    = "memory"
	backendSQLite    = "sqlite"
	backendFirestore = "firestore"
)

// Database selects where CRM entities and the system configuration live
type Database struct {
	Backend             string
	SQLitePath          string
	FirestoreProjectID  string
	FirestoreDatabaseID string
}

// Flags returns CLI flags for Database configuration
func (d *Database) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "database",
			Usage:       "Repository backend (auto, memory, sqlite, firestore). auto picks firestore, then sqlite, then memory",
			Category:    "Database",
			Value:       backendAuto,
			Sources:     cli.EnvVars("HERMESCAD_DATABASE"),
			Destination: &d.Backend,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "Path of the SQLite database file",
			Category:    "Database",
			Sources:     cli.EnvVars("HERMESCAD_SQLITE_PATH"),
			Destination: &d.SQLitePath,
		},
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for Firestore",
			Category:    "Database",
			Sources:     cli.EnvVars("HERMESCAD_FIRESTORE_PROJECT"),
			Destination: &d.FirestoreProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Database",
			Value:       "(default)",
			Sources:     cli.EnvVars("HERMESCAD_FIRESTORE_DATABASE"),
			Destination: &d.FirestoreDatabaseID,
		},
	}
}

// backend resolves "auto" into a concrete backend
func (d *Database) backend() (string, error) {
	backend := strings.ToLower(d.Backend)
	switch backend {
	case "", backendAuto:
		switch {
		case d.FirestoreProjectID != "":
			return backendFirestore, nil
		case d.SQLitePath != "":
			return backendSQLite, nil
		default:
			return backendMemory, nil
		}
	case backendMemory:
		return backend, nil
	case backendSQLite:
		if d.SQLitePath == "" {
			return "", goerr.New("sqlite backend requires --sqlite-path")
		}
		return backend, nil
	case backendFirestore:
		if d.FirestoreProjectID == "" {
			return "", goerr.New("firestore backend requires --firestore-project")
		}
		return backend, nil
	default:
		return "", goerr.New("unknown database backend", goerr.V("backend", d.Backend))
	}
}

// Configure opens the selected repository
func (d *Database) Configure(ctx context.Context) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	backend, err := d.backend()
	if err != nil {
		return nil, err
	}

	switch backend {
	case backendFirestore:
		repo, err := repository.NewFirestore(ctx, d.FirestoreProjectID, d.FirestoreDatabaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init firestore",
				goerr.V("project", d.FirestoreProjectID),
				goerr.V("database", d.FirestoreDatabaseID),
			)
		}
		return repo, nil

	case backendSQLite:
		repo, err := repository.NewSQLite(ctx, d.SQLitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init sqlite", goerr.V("path", d.SQLitePath))
		}
		logger.Info("Using SQLite database", "path", d.SQLitePath)
		return repo, nil

	default:
		logger.Warn("Using memory database. Clients and settings are lost when the process exits")
		return repository.NewMemory(), nil
	}
}

// LogValue returns structured log value
func (d Database) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", d.Backend),
		slog.String("sqlite_path", d.SQLitePath),
		slog.String("firestore_project", d.FirestoreProjectID),
		slog.String("firestore_database", d.FirestoreDatabaseID),
	)
}
