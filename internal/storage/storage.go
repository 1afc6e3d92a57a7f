// Package storage is the persistence layer: a thin, hand-written repository
// set over the ent SQL driver. It speaks sqlite, postgres and mysql through
// the same builders and exposes transactions via the context, so services
// never hold a *sql.Tx directly.
package storage

import (
	"context"
	stdsql "database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	_ "github.com/PerryRichardson/storefront/internal/pkg/sqlite"
)

// Config selects the database backend.
type Config struct {
	Dialect string `conf:"dialect" yaml:"dialect" json:"dialect"`
	DSN     string `conf:"dsn" yaml:"dsn" json:"dsn"`
	Debug   bool   `conf:"debug" yaml:"debug" json:"debug"`
}

// Client wraps the dialect-aware SQL driver.
type Client struct {
	drv     *entsql.Driver
	dialect string
}

// Open connects, normalizes the dialect name and runs schema migration.
func Open(cfg Config) (*Client, error) {
	var (
		driverName string
		dbDialect  string
	)

	switch cfg.Dialect {
	case "postgres", "pgx", "pg", "postgresql":
		driverName = "pgx"
		dbDialect = dialect.Postgres
	case "sqlite3", "sqlite", "":
		driverName = "sqlite3"
		dbDialect = dialect.SQLite
	case "mysql", "tidb":
		driverName = "mysql"
		dbDialect = dialect.MySQL
	default:
		return nil, fmt.Errorf("storage: invalid dialect: %s", cfg.Dialect)
	}

	db, err := stdsql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", cfg.Dialect, err)
	}

	client := &Client{
		drv:     entsql.OpenDB(dbDialect, db),
		dialect: dbDialect,
	}

	if err := client.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return client, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.drv.Close()
}

// Dialect returns the normalized dialect name.
func (c *Client) Dialect() string {
	return c.dialect
}

// builder returns a dialect-bound statement builder.
func (c *Client) builder() *entsql.DialectBuilder {
	return entsql.Dialect(c.dialect)
}

// supportsRowLocks reports whether SELECT ... FOR UPDATE is available.
// SQLite has no row locks; its single-writer model serializes transactions
// instead.
func (c *Client) supportsRowLocks() bool {
	return c.dialect != dialect.SQLite
}

// txKey is an unexported key type to prevent external forgery.
type txKey struct{}

// NewTxContext stores an open transaction in the context. Repository calls
// made with this context run inside the transaction.
func NewTxContext(ctx context.Context, tx dialect.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction carried by the context, if any.
func TxFromContext(ctx context.Context) dialect.Tx {
	tx, _ := ctx.Value(txKey{}).(dialect.Tx)
	return tx
}

// conn resolves the execution target: the ambient transaction if carried by
// the context, else the root driver.
func (c *Client) conn(ctx context.Context) dialect.ExecQuerier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}

	return c.drv
}

// Tx opens a transaction on the root driver.
func (c *Client) Tx(ctx context.Context) (dialect.Tx, error) {
	return c.drv.Tx(ctx)
}

// insertID runs an insert and returns the generated id. Postgres needs
// RETURNING; the other dialects report it on the exec result.
func (c *Client) insertID(ctx context.Context, b *entsql.InsertBuilder) (int, error) {
	if c.dialect == dialect.Postgres {
		b.Returning("id")
		query, args := b.Query()

		rows := &entsql.Rows{}
		if err := c.conn(ctx).Query(ctx, query, args, rows); err != nil {
			return 0, err
		}
		defer rows.Close()

		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return 0, err
			}

			return 0, fmt.Errorf("storage: insert returned no id")
		}

		var id int
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}

		return id, nil
	}

	query, args := b.Query()

	var res stdsql.Result
	if err := c.conn(ctx).Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	return int(id), nil
}

// exec runs a statement that returns no rows.
func (c *Client) exec(ctx context.Context, query string, args []any) error {
	var res stdsql.Result
	return c.conn(ctx).Exec(ctx, query, args, &res)
}

// query runs a select and hands each row to scan.
func (c *Client) query(ctx context.Context, query string, args []any, scan func(rows *entsql.Rows) error) error {
	rows := &entsql.Rows{}
	if err := c.conn(ctx).Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
