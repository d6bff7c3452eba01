package server

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"

	"github.com/notable-io/notable/auth"
)

// AuthController exposes the login endpoint. Logout has no server side:
// tokens are stateless, the client simply discards its copy.
type AuthController struct {
	Debug  bool
	Logger auth.Logger
	Auther auth.Authenticator
}

func NewAuthController(auther auth.Authenticator, logger auth.Logger, debug bool) *AuthController {
	if auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return &AuthController{
		Auther: auther,
		Logger: logger,
		Debug:  debug,
	}
}

// LoginRequest payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse carries the minted token, nothing else.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login checks the credentials and returns a token. Every failure mode,
// including malformed payloads, collapses into the same generic 401 with an
// empty body so the response never reveals whether the username exists.
func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Debug("login bind failed", "error", err)
		return loginRejected(c)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("login validation failed", "error", err)
		return loginRejected(c)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(LoginRequest{Username: payload.Username}))
		fmt.Println("=========================")
	}

	token, err := a.Auther.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return loginRejected(c)
	}

	return c.JSON(LoginResponse{Token: token})
}

// loginRejected is the single failure response: 401 with an empty body, so
// nothing distinguishes a bad password from an unknown user or a broken
// payload.
func loginRejected(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).SendString("")
}
