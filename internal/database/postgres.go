package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/blackcloro/conta-repository/internal"
	"github.com/blackcloro/conta-repository/internal/config"
)

// Conn is the part of *pgx.Conn the account repository relies on.
type Conn interface {
	Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error)
	Deallocate(ctx context.Context, name string) error
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Close(ctx context.Context) error
}

// Connector opens a new, unpooled connection on every Connect call.
type Connector struct {
	config *pgx.ConnConfig
}

func NewConnector(cfg config.DBConfig) (*Connector, error) {
	connConfig, err := pgx.ParseConfig(BuildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	connConfig.Logger = pgxLogger{}
	connConfig.LogLevel = pgx.LogLevelInfo

	return &Connector{config: connConfig}, nil
}

// BuildDSN renders cfg as a postgres:// URL. Credentials are escaped by url.URL.
func BuildDSN(cfg config.DBConfig) string {
	query := url.Values{}
	if cfg.SSL {
		query.Set("sslmode", "require")
	} else {
		query.Set("sslmode", "disable")
	}
	if secs := int(cfg.ConnectTimeout.Seconds()); secs > 0 {
		query.Set("connect_timeout", strconv.Itoa(secs))
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:     "/" + cfg.Name,
		RawQuery: query.Encode(),
	}
	return dsn.String()
}

func (c *Connector) Connect(ctx context.Context) (Conn, error) {
	conn, err := pgx.ConnectConfig(ctx, c.config.Copy())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internal.ErrConnection, err)
	}
	return conn, nil
}
