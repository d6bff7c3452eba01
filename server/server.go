package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/notable-io/notable/auth"
	"github.com/notable-io/notable/config"
	"github.com/notable-io/notable/middleware/authware"
	"github.com/notable-io/notable/middleware/routeguard"
	"github.com/notable-io/notable/store"
)

// Server wires the HTTP surface: the authentication interceptor, the
// authorization policy, the REST controllers and the GraphQL endpoint.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	auther *auth.Auther
	repos  store.RepositoryManager
	logger auth.Logger
	Debug  bool
}

type Option func(*Server) *Server

func WithLogger(logger auth.Logger) Option {
	return func(s *Server) *Server {
		if logger != nil {
			s.logger = logger
		}
		return s
	}
}

func WithDebug(debug bool) Option {
	return func(s *Server) *Server {
		s.Debug = debug
		return s
	}
}

func New(cfg *config.Config, auther *auth.Auther, repos store.RepositoryManager, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		auther: auther,
		repos:  repos,
		logger: nopLogger{},
	}

	for _, opt := range opts {
		s = opt(s)
	}

	if s.cfg == nil {
		panic("Missing Config in server...")
	}

	if s.auther == nil {
		panic("Missing Authenticator in server...")
	}

	if s.repos == nil {
		panic("Missing RepositoryManager in server...")
	}

	s.app = fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})

	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origin,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	// The interceptor runs on every request and never rejects; the policy
	// decides afterwards whether the (possibly anonymous) request may pass.
	s.app.Use(authware.New(authware.Config{
		Resolver:   s.auther,
		ContextKey: cfg.GetContextKey(),
		AuthScheme: cfg.GetAuthScheme(),
		Logger:     s.logger,
	}))

	s.app.Use(routeguard.New(routeguard.Config{
		ContextKey: cfg.GetContextKey(),
	}))

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	authCtrl := NewAuthController(s.auther, s.logger, s.Debug)
	api.Post("/auth/login", authCtrl.Login)

	usersCtrl := NewUsersController(s.repos, s.logger)
	api.Post("/users", usersCtrl.Register)
	api.Get("/users", usersCtrl.List)
	api.Get("/users/:id", usersCtrl.Show)
	api.Put("/users/:id", usersCtrl.Update)
	api.Delete("/users/:id", usersCtrl.Delete)

	notebooksCtrl := NewNotebooksController(s.repos, s.logger)
	api.Get("/notebooks", notebooksCtrl.List)
	api.Get("/notebooks/:id", notebooksCtrl.Show)
	api.Post("/notebooks", notebooksCtrl.Create)
	api.Put("/notebooks/:id", notebooksCtrl.Update)
	api.Delete("/notebooks/:id", notebooksCtrl.Delete)

	notesCtrl := NewNotesController(s.repos, s.logger)
	api.Get("/notes", notesCtrl.List)
	api.Get("/notes/search", notesCtrl.Search)
	api.Get("/notes/:id", notesCtrl.Show)
	api.Post("/notes", notesCtrl.Create)
	api.Put("/notes/:id", notesCtrl.Update)
	api.Delete("/notes/:id", notesCtrl.Delete)

	gql := NewGraphQLController(s.repos, s.logger)
	s.app.Post("/graphql", gql.Handle)
}

// App exposes the underlying fiber app, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Server.Addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
