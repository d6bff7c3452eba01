package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Users() Users
	Notebooks() Notebooks
	Notes() Notes
}

type mngr struct {
	db        *bun.DB
	users     Users
	notebooks Notebooks
	notes     Notes
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:        db,
		users:     NewUsersRepository(db),
		notebooks: NewNotebooksRepository(db),
		notes:     NewNotesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.notebooks == nil {
		return errors.New("repository notebooks should be initialized")
	}

	if m.notes == nil {
		return errors.New("repository notes should be initialized")
	}

	return nil
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Notebooks() Notebooks {
	return m.notebooks
}

func (m mngr) Notes() Notes {
	return m.notes
}
