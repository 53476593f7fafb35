// Package migrate applies plain SQL migration scripts exactly once each,
// tracking applied scripts by filename in a ledger table.
//
// Scripts are the *.sql files at the root of an fs.FS, applied in
// lexicographic filename order. A script already present in the ledger is
// skipped. A script that fails is not recorded and the run stops there, so
// it is retried verbatim on the next run.
//
// There is no locking between concurrent runners and a script is not
// wrapped in a transaction: a crash after a script executes but before its
// ledger row is written re-runs it. Scripts must therefore be safe to run
// twice (CREATE TABLE IF NOT EXISTS, ADD COLUMN IF NOT EXISTS,
// INSERT ... ON CONFLICT DO NOTHING, ...).
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path"
	"regexp"
	"sort"
	"time"

	"github.com/dmitrijs2005/kitchenkeeper/internal/logging"
)

// DefaultTable is the ledger table name.
const DefaultTable = "migrations"

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Script is one migration file.
type Script struct {
	Name string
	SQL  string
}

// Record is one ledger row.
type Record struct {
	Filename   string
	ExecutedAt time.Time
}

// Report lists what a RunAll call did, in apply order.
type Report struct {
	Applied []string
	Skipped []string
}

// Error is returned when a script fails to execute or cannot be recorded.
type Error struct {
	Script string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("migration %s failed: %v", e.Script, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Migrator applies the scripts found in source to db.
type Migrator struct {
	db     *sql.DB
	source fs.FS
	table  string
	logger logging.Logger
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithLogger sets the logger used for apply/skip messages.
func WithLogger(l logging.Logger) Option {
	return func(m *Migrator) { m.logger = l }
}

// WithTable overrides the ledger table name. Names that are not plain SQL
// identifiers are ignored.
func WithTable(name string) Option {
	return func(m *Migrator) {
		if tableNameRe.MatchString(name) {
			m.table = name
		}
	}
}

// New returns a Migrator reading scripts from source.
func New(db *sql.DB, source fs.FS, opts ...Option) *Migrator {
	m := &Migrator{
		db:     db,
		source: source,
		table:  DefaultTable,
		logger: logging.Nop(),
	}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With("module", "migrate")
	return m
}

// Bootstrap creates the ledger table if it does not exist.
func (m *Migrator) Bootstrap(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		filename VARCHAR(255) PRIMARY KEY,
		executed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, m.table)
	if _, err := m.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create ledger table %s: %w", m.table, err)
	}
	return nil
}

// Discover yields the migration scripts in filename order. The directory is
// listed when iteration starts and each file is read only when reached, so
// every range over the result starts afresh. A listing or read error is
// yielded once and ends the sequence.
func (m *Migrator) Discover() iter.Seq2[Script, error] {
	return func(yield func(Script, error) bool) {
		names, err := fs.Glob(m.source, "*.sql")
		if err != nil {
			yield(Script{}, fmt.Errorf("list migrations: %w", err))
			return
		}
		sort.Strings(names)

		for _, name := range names {
			body, err := fs.ReadFile(m.source, name)
			if err != nil {
				yield(Script{Name: name}, &Error{Script: name, Err: err})
				return
			}
			if !yield(Script{Name: path.Base(name), SQL: string(body)}, nil) {
				return
			}
		}
	}
}

// Applied reports whether name is recorded in the ledger.
func (m *Migrator) Applied(ctx context.Context, name string) (bool, error) {
	var one int
	err := m.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT 1 FROM %s WHERE filename = $1`, m.table), name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ledger lookup %s: %w", name, err)
	}
	return true, nil
}

// Apply runs s unless it is already in the ledger and reports whether it ran.
// The ledger row is written only after the script succeeded.
func (m *Migrator) Apply(ctx context.Context, s Script) (bool, error) {
	done, err := m.Applied(ctx, s.Name)
	if err != nil {
		return false, &Error{Script: s.Name, Err: err}
	}
	if done {
		m.logger.Info(ctx, "skipping migration, already applied", "script", s.Name)
		return false, nil
	}

	m.logger.Info(ctx, "applying migration", "script", s.Name)
	start := time.Now()

	if _, err := m.db.ExecContext(ctx, s.SQL); err != nil {
		return false, &Error{Script: s.Name, Err: err}
	}
	if _, err := m.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s (filename) VALUES ($1)`, m.table), s.Name); err != nil {
		return false, &Error{Script: s.Name, Err: fmt.Errorf("record in ledger: %w", err)}
	}

	m.logger.Debug(ctx, "migration applied", "script", s.Name, "took", time.Since(start))
	return true, nil
}

// RunAll bootstraps the ledger and applies every discovered script in order,
// stopping at the first failure.
func (m *Migrator) RunAll(ctx context.Context) (Report, error) {
	var rep Report

	if err := m.Bootstrap(ctx); err != nil {
		return rep, err
	}

	for s, err := range m.Discover() {
		if err != nil {
			return rep, err
		}
		applied, err := m.Apply(ctx, s)
		if err != nil {
			m.logger.Error(ctx, "migration failed", "script", s.Name, "error", err)
			return rep, err
		}
		if applied {
			rep.Applied = append(rep.Applied, s.Name)
		} else {
			rep.Skipped = append(rep.Skipped, s.Name)
		}
	}

	m.logger.Info(ctx, "migrations complete", "applied", len(rep.Applied), "skipped", len(rep.Skipped))
	return rep, nil
}

// Status returns the ledger ordered by filename.
func (m *Migrator) Status(ctx context.Context) ([]Record, error) {
	if err := m.Bootstrap(ctx); err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, fmt.Sprintf(`SELECT filename, executed_at FROM %s ORDER BY filename`, m.table))
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Filename, &r.ExecutedAt); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
