package testutil

import (
	"context"
	"math"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"
)

// TruncateAccounts removes all rows from public.conta.
func TruncateAccounts(ctx context.Context, t require.TestingT, pool *pgxpool.Pool) {
	_, err := pool.Exec(ctx, "TRUNCATE TABLE public.conta")
	require.NoError(t, err)
}

// InsertAccount writes a row directly, bypassing the repository.
func InsertAccount(ctx context.Context, t require.TestingT, pool *pgxpool.Pool, numero string, saldo float64) {
	_, err := pool.Exec(ctx, "INSERT INTO public.conta(numero, saldo) VALUES ($1, $2)", numero, saldo)
	require.NoError(t, err)
}

// Balances returns the saldo of every row with the given numero, in no particular order.
func Balances(ctx context.Context, t require.TestingT, pool *pgxpool.Pool, numero string) []float64 {
	rows, err := pool.Query(ctx, "SELECT saldo FROM public.conta WHERE numero = $1", numero)
	require.NoError(t, err)
	defer rows.Close()

	var saldos []float64
	for rows.Next() {
		var saldo float64
		require.NoError(t, rows.Scan(&saldo))
		saldos = append(saldos, saldo)
	}
	require.NoError(t, rows.Err())
	return saldos
}

// SameSaldo compares balances with a small epsilon; NaN equals NaN and
// infinities equal themselves.
func SameSaldo(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if a == b {
		return true
	}
	return math.Abs(a-b) < 0.00001
}
