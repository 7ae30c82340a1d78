package database

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/blackcloro/conta-repository/internal"
	"github.com/blackcloro/conta-repository/internal/database"
	"github.com/blackcloro/conta-repository/internal/domain/account"
	"github.com/blackcloro/conta-repository/pkg/logger"
)

// Prepared statement names and their SQL. Each operation prepares exactly one.
const (
	insertAccountStmt = "conta_insert"
	updateAccountStmt = "conta_update"
	selectAccountStmt = "conta_select"
	deleteAccountStmt = "conta_delete"

	insertAccountSQL = `INSERT INTO public.conta(numero, saldo) VALUES ($1, $2)`
	updateAccountSQL = `UPDATE public.conta SET saldo = $1 WHERE numero = $2`
	selectAccountSQL = `SELECT numero, saldo FROM public.conta WHERE numero = $1`
	deleteAccountSQL = `DELETE FROM public.conta WHERE numero = $1`
)

const releaseTimeout = 5 * time.Second

type Connector interface {
	Connect(ctx context.Context) (database.Conn, error)
}

// PostgresAccountRepository runs every operation on its own connection and
// never opens an explicit transaction, so each statement is auto-committed.
// Concurrent updates of one numero are last-write-wins.
type PostgresAccountRepository struct {
	connector        Connector
	statementTimeout time.Duration
}

// NewPostgresAccountRepository builds a repository. A zero statementTimeout
// leaves operations bounded only by ctx.
func NewPostgresAccountRepository(connector Connector, statementTimeout time.Duration) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		connector:        connector,
		statementTimeout: statementTimeout,
	}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, numero string, saldo float64) account.Result {
	err := r.withStatement(ctx, insertAccountStmt, insertAccountSQL, func(ctx context.Context, conn database.Conn) error {
		_, err := conn.Exec(ctx, insertAccountStmt, numero, saldo)
		return err
	})
	if err != nil {
		return r.failed(account.OpCreate, numero, err)
	}

	logger.Debug("Account created", "numero", numero)
	return account.Succeeded(account.OpCreate, numero)
}

func (r *PostgresAccountRepository) Update(ctx context.Context, numero string, saldo float64) account.Result {
	var rowsAffected int64
	err := r.withStatement(ctx, updateAccountStmt, updateAccountSQL, func(ctx context.Context, conn database.Conn) error {
		tag, err := conn.Exec(ctx, updateAccountStmt, saldo, numero)
		if err != nil {
			return err
		}
		rowsAffected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return r.failed(account.OpUpdate, numero, err)
	}

	if rowsAffected == 0 {
		return r.notFound(account.OpUpdate, numero)
	}

	logger.Debug("Account updated", "numero", numero, "rows", rowsAffected)
	return account.Succeeded(account.OpUpdate, numero)
}

// Find reports the first row the store returns; duplicates of numero are not detected.
func (r *PostgresAccountRepository) Find(ctx context.Context, numero string) account.Result {
	var (
		a     account.Account
		found bool
	)
	err := r.withStatement(ctx, selectAccountStmt, selectAccountSQL, func(ctx context.Context, conn database.Conn) error {
		err := conn.QueryRow(ctx, selectAccountStmt, numero).Scan(&a.Numero, &a.Saldo)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return r.failed(account.OpFind, numero, err)
	}

	if !found {
		return r.notFound(account.OpFind, numero)
	}

	logger.Debug("Account found", "numero", a.Numero, "saldo", a.Saldo)
	return account.Found(a)
}

func (r *PostgresAccountRepository) Delete(ctx context.Context, numero string) account.Result {
	var rowsAffected int64
	err := r.withStatement(ctx, deleteAccountStmt, deleteAccountSQL, func(ctx context.Context, conn database.Conn) error {
		tag, err := conn.Exec(ctx, deleteAccountStmt, numero)
		if err != nil {
			return err
		}
		rowsAffected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return r.failed(account.OpDelete, numero, err)
	}

	if rowsAffected == 0 {
		return r.notFound(account.OpDelete, numero)
	}

	logger.Debug("Account deleted", "numero", numero, "rows", rowsAffected)
	return account.Succeeded(account.OpDelete, numero)
}

// withStatement acquires a fresh connection, prepares sql under name and runs
// fn. The statement and the connection are released on every return path.
func (r *PostgresAccountRepository) withStatement(ctx context.Context, name, sql string, fn func(context.Context, database.Conn) error) error {
	if r.statementTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.statementTimeout)
		defer cancel()
	}

	conn, err := r.connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer func(conn database.Conn) {
		closeCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := conn.Close(closeCtx); err != nil {
			logger.Warn("Failed to close connection", "error", err)
		}
	}(conn)

	if _, err := conn.Prepare(ctx, name, sql); err != nil {
		return err
	}
	defer func(conn database.Conn) {
		releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := conn.Deallocate(releaseCtx, name); err != nil {
			logger.Debug("Failed to deallocate statement", "statement", name, "error", err)
		}
	}(conn)

	return fn(ctx, conn)
}

func (r *PostgresAccountRepository) notFound(op account.Operation, numero string) account.Result {
	logger.Debug("Account not found", "op", op, "numero", numero)
	return account.NotFound(op, numero)
}

func (r *PostgresAccountRepository) failed(op account.Operation, numero string, err error) account.Result {
	kind := classify(err)
	logger.Error("Account operation failed", err, "op", op, "numero", numero, "kind", kind)
	return account.Failed(op, numero, kind, err)
}

// classify maps a driver error onto the two failure kinds callers can see.
func classify(err error) account.ErrorKind {
	var (
		pgErr  *pgconn.PgError
		netErr net.Error
	)
	switch {
	case errors.Is(err, internal.ErrConnection):
		return account.ErrorKindConnection
	case errors.As(err, &pgErr):
		return account.ErrorKindStatement
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), pgconn.Timeout(err):
		return account.ErrorKindConnection
	case errors.As(err, &netErr), pgconn.SafeToRetry(err):
		return account.ErrorKindConnection
	default:
		return account.ErrorKindStatement
	}
}
