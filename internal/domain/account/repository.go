package account

import (
	"context"
)

// Repository reports every outcome, including store failures, as a Result.
type Repository interface {
	Create(ctx context.Context, numero string, saldo float64) Result
	Update(ctx context.Context, numero string, saldo float64) Result
	Find(ctx context.Context, numero string) Result
	Delete(ctx context.Context, numero string) Result
}
