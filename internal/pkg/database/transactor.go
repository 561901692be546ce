package database

import "context"

// Transactor runs fn inside one unit of work. Repositories called with the
// ctx passed to fn join that unit of work; fn's error rolls it back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
