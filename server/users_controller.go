package server

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/notable-io/notable/auth"
	"github.com/notable-io/notable/store"
)

// UsersController is the REST surface for user records. Registration is the
// one public write so new users can obtain credentials; everything else sits
// behind the policy table.
type UsersController struct {
	Logger auth.Logger
	Repo   store.RepositoryManager
}

func NewUsersController(repos store.RepositoryManager, logger auth.Logger) *UsersController {
	if repos == nil {
		panic("Missing RepositoryManager in users controller...")
	}

	return &UsersController{
		Repo:   repos,
		Logger: logger,
	}
}

// RegisterUserRequest payload
type RegisterUserRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate will run validation rules
func (r RegisterUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 100)),
		validation.Field(&r.FirstName, validation.Length(0, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(3, 100)),
	)
}

// UpdateUserRequest payload. The username is fixed at registration; a blank
// password leaves the stored hash untouched.
type UpdateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate will run validation rules
func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(0, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *UsersController) Register(c *fiber.Ctx) error {
	payload := new(RegisterUserRequest)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		a.Logger.Error("register password hash failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	user := &store.User{
		Username:     payload.Username,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		PasswordHash: hash,
	}

	created, err := a.Repo.Users().Register(c.UserContext(), user)
	if err != nil {
		if isUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "username already taken"})
		}
		a.Logger.Error("register user failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (a *UsersController) List(c *fiber.Ctx) error {
	users, err := a.Repo.Users().ListAll(c.UserContext())
	if err != nil {
		a.Logger.Error("list users failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(users)
}

func (a *UsersController) Show(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	user, err := a.Repo.Users().GetByID(c.UserContext(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		a.Logger.Error("show user failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(user)
}

func (a *UsersController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	payload := new(UpdateUserRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := a.Repo.Users().GetByID(c.UserContext(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		a.Logger.Error("update user lookup failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	user.FirstName = payload.FirstName
	user.LastName = payload.LastName
	user.Email = payload.Email
	user.UpdatedAt = time.Now()

	if payload.Password != "" {
		hash, err := auth.HashPassword(payload.Password)
		if err != nil {
			a.Logger.Error("update password hash failed", "error", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		user.PasswordHash = hash
	}

	updated, err := a.Repo.Users().Update(c.UserContext(), user)
	if err != nil {
		a.Logger.Error("update user failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(updated)
}

func (a *UsersController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	// Deletion is immediate; outstanding tokens for this user keep verifying
	// but stop resolving to an identity.
	deleted, err := a.Repo.Users().DeleteByID(c.UserContext(), id)
	if err != nil {
		a.Logger.Error("delete user failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	if !deleted {
		return c.SendStatus(fiber.StatusNotFound)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
