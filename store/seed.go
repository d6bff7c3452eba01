package store

import (
	"context"
	"fmt"

	"github.com/goliatone/hashid/pkg/hashid"

	"github.com/notable-io/notable/auth"
)

// SeedPassword is the password shared by the demo accounts.
const SeedPassword = "123"

// Seed loads the demo fixtures: three users with three notebooks each and
// three notes per notebook. It is a no-op once any user exists, so restarts
// against the same database keep their data.
func Seed(ctx context.Context, repos RepositoryManager) error {
	count, err := repos.Users().Count(ctx)
	if err != nil {
		return fmt.Errorf("seed user count: %w", err)
	}

	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(SeedPassword)
	if err != nil {
		return fmt.Errorf("seed password hash: %w", err)
	}

	for _, fixture := range demoFixtures() {
		user := fixture.user
		user.PasswordHash = hash

		// Deterministic ids keep the demo accounts stable across databases.
		if id, err := hashid.NewUUID(user.Username); err == nil {
			user.ID = id
		}

		if _, err := repos.Users().Register(ctx, user); err != nil {
			return fmt.Errorf("seed user %q: %w", user.Username, err)
		}

		for _, nb := range fixture.notebooks {
			notebook := nb.notebook
			notebook.UserID = user.Username

			saved, err := repos.Notebooks().Add(ctx, notebook)
			if err != nil {
				return fmt.Errorf("seed notebook %q: %w", notebook.Title, err)
			}

			for _, note := range nb.notes {
				note.UserID = user.Username
				note.NotebookID = saved.ID
				if _, err := repos.Notes().Add(ctx, note); err != nil {
					return fmt.Errorf("seed note %q: %w", note.Title, err)
				}
			}
		}
	}

	return nil
}

type notebookFixture struct {
	notebook *Notebook
	notes    []*Note
}

type userFixture struct {
	user      *User
	notebooks []notebookFixture
}

func demoFixtures() []userFixture {
	return []userFixture{
		{
			user: &User{Username: "admin", FirstName: "Admin", LastName: "User", Email: "admin@example.com"},
			notebooks: []notebookFixture{
				{
					notebook: &Notebook{Title: "Project Ideas"},
					notes: []*Note{
						{Title: "New app idea", Content: "An app that identifies plant species from photos."},
						{Title: "Feature brainstorming", Content: "List every feature we want for the plant scanner project."},
						{Title: "Technology stack", Content: "Decide between Flutter and React Native for the client."},
					},
				},
				{
					notebook: &Notebook{Title: "Recipe Collection"},
					notes: []*Note{
						{Title: "Lasagna", Content: "Family recipe with homemade bechamel and fresh pasta."},
						{Title: "Pumpkin soup", Content: "Autumn soup with nutmeg, cream and pumpkin."},
						{Title: "Homemade pesto", Content: "Blend basil, pine nuts, parmesan and olive oil."},
					},
				},
				{
					notebook: &Notebook{Title: "Travel Planning 2025"},
					notes: []*Note{
						{Title: "Japan", Content: "Planned route: Tokyo, Kyoto, Osaka. Research accommodation."},
						{Title: "Packing list", Content: "Passport, camera, chargers, comfortable shoes."},
						{Title: "Budget", Content: "Estimate flights, hotels, food and sightseeing."},
					},
				},
			},
		},
		{
			user: &User{Username: "john.doe", FirstName: "John", LastName: "D", Email: "john.d@example.com"},
			notebooks: []notebookFixture{
				{
					notebook: &Notebook{Title: "Work Notes"},
					notes: []*Note{
						{Title: "Project X planning", Content: "Define required resources, deadlines and owners."},
						{Title: "Team meeting notes", Content: "Discussion about current blockers and next steps."},
						{Title: "Feedback round", Content: "Collect customer feedback on the prototype."},
					},
				},
				{
					notebook: &Notebook{Title: "Hobby Projects"},
					notes: []*Note{
						{Title: "Arduino robot", Content: "Document parts list, wiring diagrams and first tests."},
						{Title: "Model aircraft", Content: "Order components and track build progress."},
						{Title: "3D printing", Content: "Collect and prioritize ideas for new prints."},
					},
				},
				{
					notebook: &Notebook{Title: "Fitness Plan"},
					notes: []*Note{
						{Title: "Training week 1", Content: "Monday cardio, Wednesday strength, Friday yoga."},
						{Title: "Nutrition tips", Content: "More protein, less sugar, enough water."},
						{Title: "Progress tracking", Content: "Log measurements, weight and personal goals."},
					},
				},
			},
		},
		{
			user: &User{Username: "jane.smith", FirstName: "Jane", LastName: "S", Email: "jane.s@example.com"},
			notebooks: []notebookFixture{
				{
					notebook: &Notebook{Title: "Meeting Notes"},
					notes: []*Note{
						{Title: "Client meeting 15.04.", Content: "Capture requirements and feedback from the client."},
						{Title: "Team retrospective", Content: "What went well, what can we improve?"},
						{Title: "Sprint planning", Content: "Distribute tasks for the next sprint."},
					},
				},
				{
					notebook: &Notebook{Title: "Recipe Ideas"},
					notes: []*Note{
						{Title: "Vegan brownies", Content: "Recipe with avocado and chickpeas."},
						{Title: "Breakfast ideas", Content: "Smoothies, overnight oats, wholegrain bread variations."},
						{Title: "Salad dressings", Content: "Vinaigrette, tahini dressing and yogurt sauces."},
					},
				},
				{
					notebook: &Notebook{Title: "Vacation Planning"},
					notes: []*Note{
						{Title: "Italy road trip", Content: "Route: Rome, Florence, Venice. Hotels and sights."},
						{Title: "Beach packing list", Content: "Swimsuit, sunscreen, books, headphones."},
						{Title: "Budget planning", Content: "Estimate flights, lodging, food and activities."},
					},
				},
			},
		},
	}
}
