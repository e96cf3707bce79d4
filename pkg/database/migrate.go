package database

import (
	"context"

	"cvchef-backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration is one idempotent schema step.
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists the schema steps in application order.
var Migrations = []Migration{
	{
		Name: "create_resumes",
		SQL: `
			CREATE TABLE IF NOT EXISTS resumes (
				id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				owner_id        TEXT NOT NULL,
				title           TEXT NOT NULL DEFAULT '',
				summary         TEXT NOT NULL DEFAULT '',
				personal_info   JSONB NOT NULL DEFAULT '{}'::jsonb,
				experience      JSONB NOT NULL DEFAULT '[]'::jsonb,
				education       JSONB NOT NULL DEFAULT '[]'::jsonb,
				skills          TEXT[] NOT NULL DEFAULT '{}',
				custom_sections JSONB NOT NULL DEFAULT '[]'::jsonb,
				created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);`,
	},
	{
		Name: "add_revision_to_resumes",
		SQL:  `ALTER TABLE resumes ADD COLUMN IF NOT EXISTS revision BIGINT NOT NULL DEFAULT 1;`,
	},
	{
		Name: "index_resumes_owner",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_resumes_owner_updated ON resumes (owner_id, updated_at DESC);`,
	},
}

// RunMigrations executes all schema steps on startup. Each step is written
// to be safe to re-run.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	logger.Log.Info("Starting database migrations")

	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			logger.Log.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		logger.Log.Info("Migration completed", "name", m.Name)
	}

	logger.Log.Info("All migrations completed successfully")
	return nil
}
