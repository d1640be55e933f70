package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Companies CompanyRepository
	Users     UserRepository
	Billing   BillingRepository
}

// TxRunner ejecuta fn dentro de una transacción; Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
