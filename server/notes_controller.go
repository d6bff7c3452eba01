package server

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/notable-io/notable/auth"
	"github.com/notable-io/notable/store"
)

// NotesController is owner scoped like the notebooks controller. The list
// endpoint optionally narrows to one notebook, and search matches title
// substrings case-insensitively.
type NotesController struct {
	Logger auth.Logger
	Repo   store.RepositoryManager
}

func NewNotesController(repos store.RepositoryManager, logger auth.Logger) *NotesController {
	if repos == nil {
		panic("Missing RepositoryManager in notes controller...")
	}

	return &NotesController{
		Repo:   repos,
		Logger: logger,
	}
}

// NoteRequest payload
type NoteRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	NotebookID string `json:"notebookId"`
}

// Validate will run validation rules
func (r NoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
	)
}

func (a *NotesController) List(c *fiber.Ctx) error {
	username, ok := auth.CurrentUsername(c.UserContext())
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	if raw := c.Query("notebookId"); raw != "" {
		notebookID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid notebookId"})
		}

		notes, err := a.Repo.Notes().ListByUserAndNotebook(c.UserContext(), username, notebookID)
		if err != nil {
			a.Logger.Error("list notes by notebook failed", "error", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(notes)
	}

	notes, err := a.Repo.Notes().ListByUser(c.UserContext(), username)
	if err != nil {
		a.Logger.Error("list notes failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(notes)
}

func (a *NotesController) Search(c *fiber.Ctx) error {
	username, ok := auth.CurrentUsername(c.UserContext())
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	notes, err := a.Repo.Notes().SearchByTitle(c.UserContext(), username, c.Query("title"))
	if err != nil {
		a.Logger.Error("search notes failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(notes)
}

func (a *NotesController) Show(c *fiber.Ctx) error {
	username, ok := auth.CurrentUsername(c.UserContext())
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	note, err := a.findOwned(c, id, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		a.Logger.Error("show note failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(note)
}

func (a *NotesController) Create(c *fiber.Ctx) error {
	username, ok := auth.CurrentUsername(c.UserContext())
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	payload := new(NoteRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	note := &store.Note{
		Title:   payload.Title,
		Content: payload.Content,
		UserID:  username,
	}

	if payload.NotebookID != "" {
		notebookID, err := uuid.Parse(payload.NotebookID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid notebookId"})
		}
		note.NotebookID = notebookID
	}

	created, err := a.Repo.Notes().Add(c.UserContext(), note)
	if err != nil {
		a.Logger.Error("create note failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (a *NotesController) Update(c *fiber.Ctx) error {
	username, ok := auth.CurrentUsername(c.UserContext())
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	payload := new(NoteRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	note, err := a.findOwned(c, id, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		a.Logger.Error("update note lookup failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	note.Title = payload.Title
	note.Content = payload.Content
	note.ModifiedAt = time.Now()

	if payload.NotebookID != "" {
		notebookID, err := uuid.Parse(payload.NotebookID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid notebookId"})
		}
		note.NotebookID = notebookID
	}

	updated, err := a.Repo.Notes().Update(c.UserContext(), note)
	if err != nil {
		a.Logger.Error("update note failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(updated)
}

func (a *NotesController) Delete(c *fiber.Ctx) error {
	username, ok := auth.CurrentUsername(c.UserContext())
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	if _, err := a.findOwned(c, id, username); err != nil {
		if repository.IsRecordNotFound(err) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		a.Logger.Error("delete note lookup failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	deleted, err := a.Repo.Notes().DeleteByID(c.UserContext(), id)
	if err != nil {
		a.Logger.Error("delete note failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	if !deleted {
		return c.SendStatus(fiber.StatusNotFound)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (a *NotesController) findOwned(c *fiber.Ctx, id uuid.UUID, username string) (*store.Note, error) {
	note, err := a.Repo.Notes().GetByID(c.UserContext(), id.String())
	if err != nil {
		return nil, err
	}

	if note.UserID != username {
		return nil, repository.NewRecordNotFound().WithMetadata(map[string]any{
			"id": id.String(),
		})
	}

	return note, nil
}
