package account

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Demonstrate walks one account through its whole lifecycle: create, find,
// update, find, delete, find. Every step runs even if an earlier one failed,
// and the results come back in that order.
func (s *Service) Demonstrate(ctx context.Context, numero string, saldo, novoSaldo float64) []Result {
	steps := []func() Result{
		func() Result { return s.repo.Create(ctx, numero, saldo) },
		func() Result { return s.repo.Find(ctx, numero) },
		func() Result { return s.repo.Update(ctx, numero, novoSaldo) },
		func() Result { return s.repo.Find(ctx, numero) },
		func() Result { return s.repo.Delete(ctx, numero) },
		func() Result { return s.repo.Find(ctx, numero) },
	}

	results := make([]Result, 0, len(steps))
	for _, step := range steps {
		results = append(results, step())
	}
	return results
}
