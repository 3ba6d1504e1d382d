package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS attempts_quiz_id_idx ON attempts (quiz_id);
CREATE INDEX IF NOT EXISTS attempts_active_idx ON attempts (start_time) WHERE end_time IS NULL;`)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP INDEX IF EXISTS attempts_quiz_id_idx, attempts_active_idx`)
			return err
		},
	)
}
