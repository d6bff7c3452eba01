package store

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Notebooks interface {
	repository.Repository[*Notebook]

	ListByUser(ctx context.Context, userID string) ([]*Notebook, error)
	ListAll(ctx context.Context) ([]*Notebook, error)
	Add(ctx context.Context, notebook *Notebook) (*Notebook, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
}

type notebooks struct {
	repository.Repository[*Notebook]
	db *bun.DB
}

var _ Notebooks = (*notebooks)(nil)

func NewNotebooksRepository(db *bun.DB) Notebooks {
	repo := repository.NewRepository[*Notebook](db, repository.ModelHandlers[*Notebook]{
		NewRecord: func() *Notebook { return &Notebook{} },
		GetID: func(n *Notebook) uuid.UUID {
			if n == nil {
				return uuid.Nil
			}
			return n.ID
		},
		SetID: func(n *Notebook, id uuid.UUID) {
			if n != nil {
				n.ID = id
			}
		},
	})

	return &notebooks{
		Repository: repo,
		db:         db,
	}
}

// Add inserts a new notebook, assigning id and creation time when unset.
func (a *notebooks) Add(ctx context.Context, notebook *Notebook) (*Notebook, error) {
	if notebook.ID == uuid.Nil {
		notebook.ID = uuid.New()
	}
	if notebook.CreatedAt.IsZero() {
		notebook.CreatedAt = time.Now()
	}
	return a.Repository.Create(ctx, notebook)
}

func (a *notebooks) ListByUser(ctx context.Context, userID string) ([]*Notebook, error) {
	var records []*Notebook
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)
	return records, err
}

func (a *notebooks) ListAll(ctx context.Context) ([]*Notebook, error) {
	var records []*Notebook
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)
	return records, err
}

func (a *notebooks) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := a.db.NewDelete().
		Model((*Notebook)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	return rows > 0, err
}
