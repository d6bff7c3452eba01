package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/notable-io/notable/auth"
	"github.com/notable-io/notable/store"
)

// NotebooksController is owner scoped: every operation acts on the notebooks
// of the authenticated username. Records owned by someone else are
// indistinguishable from records that do not exist.
type NotebooksController struct {
	Logger auth.Logger
	Repo   store.RepositoryManager
}

func NewNotebooksController(repos store.RepositoryManager, logger auth.Logger) *NotebooksController {
	if repos == nil {
		panic("Missing RepositoryManager in notebooks controller...")
	}

	return &NotebooksController{
		Repo:   repos,
		Logger: logger,
	}
}

// NotebookRequest payload
type NotebookRequest struct {
	Title      string `json:"title"`
	CoverImage string `json:"coverImage"`
}

// Validate will run validation rules
func (r NotebookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
	)
}

func (a *NotebooksController) List(c *fiber.Ctx) error {
	username, ok := auth.CurrentUsername(c.UserContext())
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	notebooks, err := a.Repo.Notebooks().ListByUser(c.UserContext(), username)
	if err != nil {
		a.Logger.Error("list notebooks failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(notebooks)
}

func (a *NotebooksController) Show(c *fiber.Ctx) error {
	username, ok := auth.CurrentUsername(c.UserContext())
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	notebook, err := a.findOwned(c, id, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		a.Logger.Error("show notebook failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(notebook)
}

func (a *NotebooksController) Create(c *fiber.Ctx) error {
	username, ok := auth.CurrentUsername(c.UserContext())
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	payload := new(NotebookRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	notebook := &store.Notebook{
		Title:      payload.Title,
		CoverImage: payload.CoverImage,
		UserID:     username,
	}

	created, err := a.Repo.Notebooks().Add(c.UserContext(), notebook)
	if err != nil {
		a.Logger.Error("create notebook failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (a *NotebooksController) Update(c *fiber.Ctx) error {
	username, ok := auth.CurrentUsername(c.UserContext())
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	payload := new(NotebookRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	notebook, err := a.findOwned(c, id, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		a.Logger.Error("update notebook lookup failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	notebook.Title = payload.Title
	notebook.CoverImage = payload.CoverImage

	updated, err := a.Repo.Notebooks().Update(c.UserContext(), notebook)
	if err != nil {
		a.Logger.Error("update notebook failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(updated)
}

func (a *NotebooksController) Delete(c *fiber.Ctx) error {
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
		a.Logger.Error("delete notebook lookup failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	deleted, err := a.Repo.Notebooks().DeleteByID(c.UserContext(), id)
	if err != nil {
		a.Logger.Error("delete notebook failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	if !deleted {
		return c.SendStatus(fiber.StatusNotFound)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// findOwned loads a notebook and checks ownership. A foreign notebook comes
// back as record-not-found.
func (a *NotebooksController) findOwned(c *fiber.Ctx, id uuid.UUID, username string) (*store.Notebook, error) {
	notebook, err := a.Repo.Notebooks().GetByID(c.UserContext(), id.String())
	if err != nil {
		return nil, err
	}

	if notebook.UserID != username {
		return nil, repository.NewRecordNotFound().WithMetadata(map[string]any{
			"id": id.String(),
		})
	}

	return notebook, nil
}
