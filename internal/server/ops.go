package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/kitchenkeeper/internal/server/auth"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/config"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/services"
)

func openWithManager(ctx context.Context, c *config.Config) (*sql.DB, *repomanager.PostgresRepositoryManager, error) {
	logger, err := NewLogger(c)
	if err != nil {
		return nil, nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN, repomanager.PoolOptions{MaxOpenConns: 1})
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	return db, repomanager.NewPostgresRepositoryManager(MigrationSource(c), logger), nil
}

// Migrate applies pending migrations and writes one line per script to out.
// With status set it only lists the ledger.
func Migrate(ctx context.Context, c *config.Config, status bool, out io.Writer) error {
	db, rm, err := openWithManager(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	if status {
		records, err := rm.MigrationStatus(ctx, db)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "no migrations applied")
		}
		for _, r := range records {
			fmt.Fprintf(out, "%s\t%s\n", r.Filename, r.ExecutedAt.UTC().Format(time.RFC3339))
		}
		return nil
	}

	report, err := rm.RunMigrations(ctx, db)
	for _, f := range report.Applied {
		fmt.Fprintf(out, "applied\t%s\n", f)
	}
	if err != nil {
		return err
	}
	for _, f := range report.Skipped {
		fmt.Fprintf(out, "skipped\t%s\n", f)
	}
	fmt.Fprintf(out, "%d applied, %d already up to date\n", len(report.Applied), len(report.Skipped))
	return nil
}

// AddUser registers an account directly against the database.
func AddUser(ctx context.Context, c *config.Config, in services.RegisterInput, out io.Writer) (*models.User, error) {
	db, rm, err := openWithManager(ctx, c)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	u, err := services.NewUserService(db, rm, auth.NewHasher(c.BcryptCost)).Register(ctx, in)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "created %s %s (%s)\n", u.ID, u.Email, u.Role)
	return u, nil
}
