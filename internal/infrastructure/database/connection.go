package database

import (
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// connConfig interpreta a DSN e fixa o timezone enviado no startup de cada conexão
func connConfig(dsn, timezone string) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if timezone != "" {
		cfg.RuntimeParams["timezone"] = timezone
	}
	return cfg, nil
}

// OpenPool abre o pool database/sql sobre o pgx com o timezone da sessão já configurado
func OpenPool(dsn, timezone string) (*sql.DB, error) {
	cfg, err := connConfig(dsn, timezone)
	if err != nil {
		return nil, err
	}
	return stdlib.OpenDB(*cfg), nil
}
