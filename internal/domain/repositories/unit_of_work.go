package repositories

import "context"

// UnitOfWork runs a function inside one transaction. Repository calls made
// with the ctx passed to fn share that transaction; fn returning an error
// rolls everything back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
