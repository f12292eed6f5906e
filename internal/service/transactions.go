package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GTD-web/ems-backend-sub027/internal/repository"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
)

// txRunner scopes a unit of work to one database transaction.
type txRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error
}

// passthroughTx runs work without a transaction. Used when no runner is wired.
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// asAppError keeps typed domain errors and wraps anything else as internal.
func asAppError(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Internal(err, message)
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isTxAborted(err error) bool {
	return errors.Is(err, repository.ErrTxAborted)
}
