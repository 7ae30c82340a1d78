package account

// Account is a row of public.conta. Numero is unique only if the store's
// schema says so; this package does not enforce it.
type Account struct {
	Numero string
	Saldo  float64
}
