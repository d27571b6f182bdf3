package store

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	version int
	name    string
	sql     string
}

// migrator applies numbered SQL files ("<version>_<name>.sql") in version
// order. The highest applied version is tracked in schema_migrations, so a
// file is never run twice.
type migrator struct {
	db    *sql.DB
	files fs.FS
	dir   string
}

func newMigrator(db *sql.DB, files fs.FS, dir string) *migrator {
	return &migrator{db: db, files: files, dir: dir}
}

// Up applies every migration newer than the recorded version and reports
// how many ran.
func (m *migrator) Up(ctx context.Context) (int, error) {
	const schema = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := m.db.ExecContext(ctx, schema); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	pending, err := m.pending(ctx)
	if err != nil {
		return 0, err
	}

	for _, mig := range pending {
		if err := m.apply(ctx, mig); err != nil {
			return 0, err
		}
		log.WithFields(log.Fields{"version": mig.version, "name": mig.name}).Debug("applied migration")
	}
	return len(pending), nil
}

// pending lists the migrations above the current schema version.
func (m *migrator) pending(ctx context.Context) ([]migration, error) {
	all, err := m.load()
	if err != nil {
		return nil, err
	}

	var current int
	row := m.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&current); err != nil {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}

	idx, _ := slices.BinarySearchFunc(all, current+1, func(mig migration, v int) int {
		return cmp.Compare(mig.version, v)
	})
	return all[idx:], nil
}

// load reads every migration file, sorted by version.
func (m *migrator) load() ([]migration, error) {
	names, err := fs.Glob(m.files, path.Join(m.dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	all := make([]migration, 0, len(names))
	for _, file := range names {
		filename := path.Base(file)
		version, name, err := parseMigrationFilename(filename)
		if err != nil {
			return nil, err
		}

		body, err := fs.ReadFile(m.files, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", filename, err)
		}
		all = append(all, migration{version: version, name: name, sql: string(body)})
	}

	slices.SortFunc(all, func(a, b migration) int { return cmp.Compare(a.version, b.version) })
	for i := 1; i < len(all); i++ {
		if all[i].version == all[i-1].version {
			return nil, fmt.Errorf("duplicate migration version: %d", all[i].version)
		}
	}
	return all, nil
}

func (m *migrator) apply(ctx context.Context, mig migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d_%s: %w", mig.version, mig.name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mig.sql); err != nil {
		return fmt.Errorf("failed to apply migration %d_%s: %w", mig.version, mig.name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, mig.version, mig.name); err != nil {
		return fmt.Errorf("failed to record migration %d_%s: %w", mig.version, mig.name, err)
	}
	return tx.Commit()
}

func parseMigrationFilename(filename string) (int, string, error) {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	versionPart, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid migration filename %q: expected '<version>_<name>.sql'", filename)
	}

	version, err := strconv.Atoi(versionPart)
	if err != nil || version <= 0 {
		return 0, "", fmt.Errorf("invalid migration version in %q", filename)
	}

	return version, name, nil
}
