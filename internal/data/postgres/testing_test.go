package postgres

import (
	"log/slog"
	"os"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// sqlPattern matches a query fragment literally.
func sqlPattern(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}
