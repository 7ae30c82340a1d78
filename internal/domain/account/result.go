package account

import (
	"fmt"

	"github.com/blackcloro/conta-repository/internal"
)

type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpFind   Operation = "find"
	OpDelete Operation = "delete"
)

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNotFound
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ErrorKind is only meaningful when Outcome is OutcomeFailed.
type ErrorKind int

const (
	ErrorKindNone ErrorKind = iota
	ErrorKindConnection
	ErrorKindStatement
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNone:
		return "none"
	case ErrorKindConnection:
		return "connection"
	case ErrorKindStatement:
		return "statement"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is what every repository operation returns. Message renders the
// text shown to people; callers that need to branch use Outcome, Kind or Err.
type Result struct {
	Op      Operation
	Outcome Outcome
	Numero  string
	// Account is set by a successful find.
	Account *Account
	Kind    ErrorKind
	Cause   error
}

func Succeeded(op Operation, numero string) Result {
	return Result{Op: op, Outcome: OutcomeSuccess, Numero: numero}
}

func Found(a Account) Result {
	return Result{Op: OpFind, Outcome: OutcomeSuccess, Numero: a.Numero, Account: &a}
}

func NotFound(op Operation, numero string) Result {
	return Result{Op: op, Outcome: OutcomeNotFound, Numero: numero}
}

func Failed(op Operation, numero string, kind ErrorKind, cause error) Result {
	return Result{Op: op, Outcome: OutcomeFailed, Numero: numero, Kind: kind, Cause: cause}
}

func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Err is nil on success. Not-found wraps internal.ErrAccountNotFound; failures
// wrap internal.ErrConnection or internal.ErrStatement together with Cause.
func (r Result) Err() error {
	switch r.Outcome {
	case OutcomeSuccess:
		return nil
	case OutcomeNotFound:
		return fmt.Errorf("%s %q: %w", r.Op, r.Numero, internal.ErrAccountNotFound)
	}

	sentinel := internal.ErrStatement
	if r.Kind == ErrorKindConnection {
		sentinel = internal.ErrConnection
	}
	if r.Cause == nil {
		return fmt.Errorf("%s %q: %w", r.Op, r.Numero, sentinel)
	}
	return fmt.Errorf("%s %q: %w: %w", r.Op, r.Numero, sentinel, r.Cause)
}

func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return r.successMessage()
	case OutcomeNotFound:
		if r.Op == OpFind {
			return fmt.Sprintf("Conta com número %s não encontrada.", r.Numero)
		}
		return fmt.Sprintf("Nenhuma conta encontrada com o número %s.", r.Numero)
	default:
		return r.failureMessage()
	}
}

func (r Result) String() string {
	return r.Message()
}

func (r Result) successMessage() string {
	switch r.Op {
	case OpCreate:
		return fmt.Sprintf("Cadastro de conta %s realizado com sucesso.", r.Numero)
	case OpUpdate:
		return fmt.Sprintf("Conta %s alterada com sucesso.", r.Numero)
	case OpDelete:
		return fmt.Sprintf("Conta %s deletada com sucesso.", r.Numero)
	case OpFind:
		if r.Account != nil {
			return fmt.Sprintf("Conta: %s, Saldo: %s", r.Account.Numero, FormatSaldo(r.Account.Saldo))
		}
		return fmt.Sprintf("Conta: %s", r.Numero)
	default:
		return fmt.Sprintf("Operação %s realizada com sucesso.", r.Op)
	}
}

func (r Result) failureMessage() string {
	detail := "erro desconhecido"
	if r.Cause != nil {
		detail = r.Cause.Error()
	}

	switch r.Op {
	case OpCreate:
		return "Erro ao cadastrar conta: " + detail
	case OpUpdate:
		return "Erro ao alterar conta: " + detail
	case OpFind:
		return "Erro ao buscar conta: " + detail
	case OpDelete:
		return "Erro ao deletar conta: " + detail
	default:
		return fmt.Sprintf("Erro na operação %s: %s", r.Op, detail)
	}
}
