package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migration is one numbered SQL file from the embedded migrations directory.
// Files are named NNN_description.sql; the numeric prefix orders them and is
// what schema_migrations records.
type migration struct {
	version int
	name    string
	sql     string
}

// Migrator applies the embedded schema migrations, each inside its own
// transaction.
type Migrator struct {
	db *sql.DB
}

func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

func (m *Migrator) ensureVersionTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

func (m *Migrator) appliedVersions() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// loadMigrations reads every embedded .sql file, sorted by version. Files
// without a parseable NNN_ prefix are skipped.
func (m *Migrator) loadMigrations() ([]migration, error) {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []migration
	for _, entry := range entries {
		prefix, rest, ok := strings.Cut(entry.Name(), "_")
		if !ok || !strings.HasSuffix(rest, ".sql") {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}

		content, err := migrationFiles.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, migration{
			version: version,
			name:    strings.TrimSuffix(rest, ".sql"),
			sql:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

func (m *Migrator) apply(mig migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", mig.version, err)
	}

	if _, err := tx.Exec(mig.sql); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to apply migration %d (%s): %w", mig.version, mig.name, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", mig.version, mig.name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", mig.version, err)
	}

	return tx.Commit()
}

// RunMigrations applies every migration not yet recorded in
// schema_migrations.
func (m *Migrator) RunMigrations() error {
	if err := m.ensureVersionTable(); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	migrations, err := m.loadMigrations()
	if err != nil {
		return err
	}

	for _, mig := range migrations {
		if applied[mig.version] {
			continue
		}
		log.Printf("Applying migration %03d_%s", mig.version, mig.name)
		if err := m.apply(mig); err != nil {
			return err
		}
	}
	return nil
}

// GetMigrationStatus prints applied/pending state for every embedded
// migration.
func (m *Migrator) GetMigrationStatus() error {
	if err := m.ensureVersionTable(); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return err
	}

	migrations, err := m.loadMigrations()
	if err != nil {
		return err
	}

	for _, mig := range migrations {
		status := "pending"
		if applied[mig.version] {
			status = "applied"
		}
		fmt.Printf("%03d_%s\t%s\n", mig.version, mig.name, status)
	}
	return nil
}
