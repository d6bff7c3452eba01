package store

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Notes interface {
	repository.Repository[*Note]

	ListByUser(ctx context.Context, userID string) ([]*Note, error)
	ListByUserAndNotebook(ctx context.Context, userID string, notebookID uuid.UUID) ([]*Note, error)
	ListByNotebook(ctx context.Context, notebookID uuid.UUID) ([]*Note, error)
	ListAll(ctx context.Context) ([]*Note, error)
	SearchByTitle(ctx context.Context, userID, title string) ([]*Note, error)
	Add(ctx context.Context, note *Note) (*Note, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
}

type notes struct {
	repository.Repository[*Note]
	db *bun.DB
}

var _ Notes = (*notes)(nil)

func NewNotesRepository(db *bun.DB) Notes {
	repo := repository.NewRepository[*Note](db, repository.ModelHandlers[*Note]{
		NewRecord: func() *Note { return &Note{} },
		GetID: func(n *Note) uuid.UUID {
			if n == nil {
				return uuid.Nil
			}
			return n.ID
		},
		SetID: func(n *Note, id uuid.UUID) {
			if n != nil {
				n.ID = id
			}
		},
	})

	return &notes{
		Repository: repo,
		db:         db,
	}
}

// Add inserts a new note, assigning id and timestamps when unset.
func (a *notes) Add(ctx context.Context, note *Note) (*Note, error) {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.ModifiedAt.IsZero() {
		note.ModifiedAt = now
	}
	return a.Repository.Create(ctx, note)
}

func (a *notes) ListByUser(ctx context.Context, userID string) ([]*Note, error) {
	var records []*Note
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)
	return records, err
}

func (a *notes) ListByUserAndNotebook(ctx context.Context, userID string, notebookID uuid.UUID) ([]*Note, error) {
	var records []*Note
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.notebook_id = ?", notebookID).
		Order("created_at ASC").
		Scan(ctx)
	return records, err
}

func (a *notes) ListByNotebook(ctx context.Context, notebookID uuid.UUID) ([]*Note, error) {
	var records []*Note
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.notebook_id = ?", notebookID).
		Order("created_at ASC").
		Scan(ctx)
	return records, err
}

func (a *notes) ListAll(ctx context.Context) ([]*Note, error) {
	var records []*Note
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)
	return records, err
}

// SearchByTitle does a case-insensitive substring match on the title within
// the user's notes.
func (a *notes) SearchByTitle(ctx context.Context, userID, title string) ([]*Note, error) {
	var records []*Note
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Where("lower(?TableAlias.title) LIKE lower(?)", "%"+title+"%").
		Order("created_at ASC").
		Scan(ctx)
	return records, err
}

func (a *notes) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := a.db.NewDelete().
		Model((*Note)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	return rows > 0, err
}
