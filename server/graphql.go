package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"github.com/notable-io/notable/auth"
	"github.com/notable-io/notable/store"
)

// GraphQLController serves the /graphql endpoint: one schema covering users,
// notebooks and notes, sharing repositories and owner scoping with the REST
// controllers. The policy table keeps the whole endpoint behind
// authentication, so resolvers can rely on an identity in the context.
type GraphQLController struct {
	Logger auth.Logger
	Repo   store.RepositoryManager
	schema graphql.Schema
}

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func NewGraphQLController(repos store.RepositoryManager, logger auth.Logger) *GraphQLController {
	if repos == nil {
		panic("Missing RepositoryManager in graphql controller...")
	}

	ctrl := &GraphQLController{
		Repo:   repos,
		Logger: logger,
	}

	schema, err := ctrl.buildSchema()
	if err != nil {
		panic("graphql schema: " + err.Error())
	}
	ctrl.schema = schema

	return ctrl
}

func (a *GraphQLController) Handle(c *fiber.Ctx) error {
	payload := new(graphqlRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	result := graphql.Do(graphql.Params{
		Schema:         a.schema,
		RequestString:  payload.Query,
		OperationName:  payload.OperationName,
		VariableValues: payload.Variables,
		Context:        c.UserContext(),
	})

	return c.JSON(result)
}

func (a *GraphQLController) buildSchema() (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.ID},
			"username":  &graphql.Field{Type: graphql.String},
			"firstName": &graphql.Field{Type: graphql.String},
			"lastName":  &graphql.Field{Type: graphql.String},
			"email":     &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	noteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Note",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.ID},
			"title":      &graphql.Field{Type: graphql.String},
			"content":    &graphql.Field{Type: graphql.String},
			"userId":     &graphql.Field{Type: graphql.String},
			"notebookId": &graphql.Field{Type: graphql.ID},
			"createdAt":  &graphql.Field{Type: graphql.DateTime},
			"modifiedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	notebookType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Notebook",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.ID},
			"title":      &graphql.Field{Type: graphql.String},
			"coverImage": &graphql.Field{Type: graphql.String},
			"userId":     &graphql.Field{Type: graphql.String},
			"createdAt":  &graphql.Field{Type: graphql.DateTime},
			"notes": &graphql.Field{
				Type: graphql.NewList(noteType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					notebook, ok := p.Source.(*store.Notebook)
					if !ok {
						return nil, nil
					}
					return a.Repo.Notes().ListByNotebook(p.Context, notebook.ID)
				},
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return a.Repo.Users().ListAll(p.Context)
				},
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := argUUID(p, "id")
					if !ok {
						return nil, nil
					}
					return orNil(a.Repo.Users().GetByID(p.Context, id.String()))
				},
			},
			"userByUsername": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					username, _ := p.Args["username"].(string)
					return orNil(a.Repo.Users().FindByUsername(p.Context, username))
				},
			},
			"notebooks": &graphql.Field{
				Type: graphql.NewList(notebookType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					username, ok := auth.CurrentUsername(p.Context)
					if !ok {
						return nil, nil
					}
					return a.Repo.Notebooks().ListByUser(p.Context, username)
				},
			},
			"notebook": &graphql.Field{
				Type: notebookType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := argUUID(p, "id")
					if !ok {
						return nil, nil
					}
					return orNil(a.ownedNotebook(p.Context, id))
				},
			},
			"notebooksByUser": &graphql.Field{
				Type: graphql.NewList(notebookType),
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					username, _ := p.Args["username"].(string)
					return a.Repo.Notebooks().ListByUser(p.Context, username)
				},
			},
			"notes": &graphql.Field{
				Type: graphql.NewList(noteType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					username, ok := auth.CurrentUsername(p.Context)
					if !ok {
						return nil, nil
					}
					return a.Repo.Notes().ListByUser(p.Context, username)
				},
			},
			"note": &graphql.Field{
				Type: noteType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := argUUID(p, "id")
					if !ok {
						return nil, nil
					}
					return orNil(a.ownedNote(p.Context, id))
				},
			},
			"notesByNotebook": &graphql.Field{
				Type: graphql.NewList(noteType),
				Args: graphql.FieldConfigArgument{
					"notebookId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					username, ok := auth.CurrentUsername(p.Context)
					if !ok {
						return nil, nil
					}
					id, ok := argUUID(p, "notebookId")
					if !ok {
						return nil, nil
					}
					return a.Repo.Notes().ListByUserAndNotebook(p.Context, username, id)
				},
			},
			"notesByTitle": &graphql.Field{
				Type: graphql.NewList(noteType),
				Args: graphql.FieldConfigArgument{
					"title": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					username, ok := auth.CurrentUsername(p.Context)
					if !ok {
						return nil, nil
					}
					title, _ := p.Args["title"].(string)
					return a.Repo.Notes().SearchByTitle(p.Context, username, title)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"firstName": &graphql.ArgumentConfig{Type: graphql.String},
					"lastName":  &graphql.ArgumentConfig{Type: graphql.String},
					"email":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					password, _ := p.Args["password"].(string)
					hash, err := auth.HashPassword(password)
					if err != nil {
						return nil, err
					}

					user := &store.User{
						Username:     argString(p, "username"),
						FirstName:    argString(p, "firstName"),
						LastName:     argString(p, "lastName"),
						Email:        argString(p, "email"),
						PasswordHash: hash,
					}
					return a.Repo.Users().Register(p.Context, user)
				},
			},
			"updateUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"firstName": &graphql.ArgumentConfig{Type: graphql.String},
					"lastName":  &graphql.ArgumentConfig{Type: graphql.String},
					"email":     &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := argUUID(p, "id")
					if !ok {
						return nil, nil
					}

					user, err := a.Repo.Users().GetByID(p.Context, id.String())
					if err != nil {
						return nil, nil
					}

					if v, ok := p.Args["firstName"].(string); ok {
						user.FirstName = v
					}
					if v, ok := p.Args["lastName"].(string); ok {
						user.LastName = v
					}
					if v, ok := p.Args["email"].(string); ok {
						user.Email = v
					}
					user.UpdatedAt = time.Now()

					return a.Repo.Users().Update(p.Context, user)
				},
			},
			"deleteUser": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := argUUID(p, "id")
					if !ok {
						return false, nil
					}
					deleted, err := a.Repo.Users().DeleteByID(p.Context, id)
					if err != nil {
						return false, err
					}
					return deleted, nil
				},
			},
			"createNotebook": &graphql.Field{
				Type: notebookType,
				Args: graphql.FieldConfigArgument{
					"title":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"coverImage": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					username, ok := auth.CurrentUsername(p.Context)
					if !ok {
						return nil, nil
					}

					notebook := &store.Notebook{
						Title:      argString(p, "title"),
						CoverImage: argString(p, "coverImage"),
						UserID:     username,
					}
					return a.Repo.Notebooks().Add(p.Context, notebook)
				},
			},
			"updateNotebook": &graphql.Field{
				Type: notebookType,
				Args: graphql.FieldConfigArgument{
					"id":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"title":      &graphql.ArgumentConfig{Type: graphql.String},
					"coverImage": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := argUUID(p, "id")
					if !ok {
						return nil, nil
					}

					notebook, err := a.ownedNotebook(p.Context, id)
					if err != nil {
						return nil, nil
					}

					if v, ok := p.Args["title"].(string); ok {
						notebook.Title = v
					}
					if v, ok := p.Args["coverImage"].(string); ok {
						notebook.CoverImage = v
					}

					return a.Repo.Notebooks().Update(p.Context, notebook)
				},
			},
			"deleteNotebook": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := argUUID(p, "id")
					if !ok {
						return false, nil
					}

					if _, err := a.ownedNotebook(p.Context, id); err != nil {
						return false, nil
					}

					deleted, err := a.Repo.Notebooks().DeleteByID(p.Context, id)
					if err != nil {
						return false, err
					}
					return deleted, nil
				},
			},
			"createNote": &graphql.Field{
				Type: noteType,
				Args: graphql.FieldConfigArgument{
					"title":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"content":    &graphql.ArgumentConfig{Type: graphql.String},
					"notebookId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					username, ok := auth.CurrentUsername(p.Context)
					if !ok {
						return nil, nil
					}

					note := &store.Note{
						Title:   argString(p, "title"),
						Content: argString(p, "content"),
						UserID:  username,
					}

					if raw := argString(p, "notebookId"); raw != "" {
						notebookID, err := uuid.Parse(raw)
						if err != nil {
							return nil, nil
						}
						note.NotebookID = notebookID
					}

					return a.Repo.Notes().Add(p.Context, note)
				},
			},
			"updateNote": &graphql.Field{
				Type: noteType,
				Args: graphql.FieldConfigArgument{
					"id":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"title":      &graphql.ArgumentConfig{Type: graphql.String},
					"content":    &graphql.ArgumentConfig{Type: graphql.String},
					"notebookId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := argUUID(p, "id")
					if !ok {
						return nil, nil
					}

					note, err := a.ownedNote(p.Context, id)
					if err != nil {
						return nil, nil
					}

					if v, ok := p.Args["title"].(string); ok {
						note.Title = v
					}
					if v, ok := p.Args["content"].(string); ok {
						note.Content = v
					}
					if raw := argString(p, "notebookId"); raw != "" {
						notebookID, err := uuid.Parse(raw)
						if err != nil {
							return nil, nil
						}
						note.NotebookID = notebookID
					}
					note.ModifiedAt = time.Now()

					return a.Repo.Notes().Update(p.Context, note)
				},
			},
			"deleteNote": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := argUUID(p, "id")
					if !ok {
						return false, nil
					}

					if _, err := a.ownedNote(p.Context, id); err != nil {
						return false, nil
					}

					deleted, err := a.Repo.Notes().DeleteByID(p.Context, id)
					if err != nil {
						return false, err
					}
					return deleted, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func (a *GraphQLController) ownedNotebook(ctx context.Context, id uuid.UUID) (*store.Notebook, error) {
	username, ok := auth.CurrentUsername(ctx)
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}

	notebook, err := a.Repo.Notebooks().GetByID(ctx, id.String())
	if err != nil {
		return nil, err
	}

	if notebook.UserID != username {
		return nil, auth.ErrIdentityNotFound
	}

	return notebook, nil
}

func (a *GraphQLController) ownedNote(ctx context.Context, id uuid.UUID) (*store.Note, error) {
	username, ok := auth.CurrentUsername(ctx)
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}

	note, err := a.Repo.Notes().GetByID(ctx, id.String())
	if err != nil {
		return nil, err
	}

	if note.UserID != username {
		return nil, auth.ErrIdentityNotFound
	}

	return note, nil
}

// argUUID parses an ID argument; a malformed id resolves to null rather than
// a schema error.
func argUUID(p graphql.ResolveParams, name string) (uuid.UUID, bool) {
	raw, _ := p.Args[name].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func argString(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}

// orNil collapses lookup errors into a null result. Mirrors the REST 404
// without leaking store internals into the response.
func orNil[T any](record *T, err error) (any, error) {
	if err != nil {
		return nil, nil
	}
	return record, nil
}
