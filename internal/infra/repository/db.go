package repository

import (
	"context"
	"log/slog"

	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both pgx.Tx and *pgxpool.Pool.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// wrapErr classifies a pgx failure into a repository error kind.
func wrapErr(logger *slog.Logger, msg string, err error) error {
	kind := infra.KindDBFailure
	switch {
	case pgconv.IsNoRows(err):
		kind = infra.KindNotFound
	default:
		switch pgconv.ErrorCode(err) {
		case pgconv.CodeUniqueViolation:
			kind = infra.KindDuplicateKey
		case pgconv.CodeForeignKeyViolation:
			kind = infra.KindForeignKeyViolated
		}
	}
	return infra.WrapRepoErr(logger, kind, msg, err)
}

func sendBatch(ctx context.Context, db DBTX, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	br := db.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}
	return br.Close()
}
