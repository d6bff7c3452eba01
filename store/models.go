package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential-store record. Deletion is immediate and
// unconditional; tokens are stateless, so there are no cascade concerns.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Username      string    `bun:"username,notnull,unique" json:"username"`
	FirstName     string    `bun:"first_name" json:"firstName"`
	LastName      string    `bun:"last_name" json:"lastName"`
	Email         string    `bun:"email,notnull" json:"email"`
	PasswordHash  string    `bun:"password_hash,notnull" json:"-"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

// Notebook groups notes under an owning username.
type Notebook struct {
	bun.BaseModel `bun:"table:notebooks,alias:nbk"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Title         string    `bun:"title,notnull" json:"title"`
	CoverImage    string    `bun:"cover_image" json:"coverImage"`
	UserID        string    `bun:"user_id,notnull" json:"userId"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	Notes         []*Note   `bun:"rel:has-many,join:id=notebook_id" json:"notes,omitempty"`
}

// Note belongs to a notebook and an owning username.
type Note struct {
	bun.BaseModel `bun:"table:notes,alias:nte"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Title         string    `bun:"title,notnull" json:"title"`
	Content       string    `bun:"content" json:"content"`
	UserID        string    `bun:"user_id,notnull" json:"userId"`
	NotebookID    uuid.UUID `bun:"notebook_id,type:uuid,nullzero" json:"notebookId"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	ModifiedAt    time.Time `bun:"modified_at,nullzero,default:current_timestamp" json:"modifiedAt"`
}
