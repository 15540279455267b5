package seed

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/todo-service/modules/todo"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// demoTodo is one seeded item.
type demoTodo struct {
	title       string
	description string
	isCompleted bool
}

var demoTodos = []demoTodo{
	{title: "Buy milk", description: "2 liters, lactose free", isCompleted: false},
	{title: "Write weekly report", description: "Summarize sprint progress", isCompleted: true},
	{title: "Book dentist appointment", description: "", isCompleted: false},
	{title: "Water the plants", description: "Balcony and kitchen", isCompleted: true},
	{title: "Renew gym membership", description: "Monthly plan is fine", isCompleted: false},
}

// seedKey derives a stable idempotency key for a demo todo. Name-based
// UUIDs are deterministic, so a restart replays through the ledger instead
// of inserting duplicate rows.
func seedKey(title string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("todo-service/seed/"+title)).String()
}

// SeedModule inserts demo todos on startup when SEED_DEMO_DATA=true.
// It goes through the todo module's create service with a deterministic
// idempotency key per item, the same path external clients use.
type SeedModule struct {
	todoAdapter todo.TodoPort
	enabled     bool
}

// Compile-time interface checks.
var _ mono.Module = (*SeedModule)(nil)
var _ mono.DependentModule = (*SeedModule)(nil)

// NewModule creates a new SeedModule.
func NewModule() *SeedModule {
	return &SeedModule{
		enabled: os.Getenv("SEED_DEMO_DATA") == "true",
	}
}

// Name returns the module name.
func (m *SeedModule) Name() string {
	return "seed"
}

// Dependencies returns the list of module dependencies.
func (m *SeedModule) Dependencies() []string {
	return []string{"todo"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *SeedModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "todo" {
		m.todoAdapter = todo.NewTodoAdapter(container)
	}
}

// Start seeds the demo todos when enabled.
func (m *SeedModule) Start(ctx context.Context) error {
	if !m.enabled {
		log.Println("[seed] Demo-data seeding disabled (set SEED_DEMO_DATA=true to enable)")
		return nil
	}
	if m.todoAdapter == nil {
		return fmt.Errorf("todoAdapter dependency not set")
	}

	for i, item := range demoTodos {
		req := &todo.CreateTodoRequest{
			Title:          item.title,
			IsCompleted:    item.isCompleted,
			IdempotencyKey: seedKey(item.title),
		}
		if item.description != "" {
			description := item.description
			req.Description = &description
		}

		resp, err := m.todoAdapter.CreateTodo(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to seed todo %q: %w", item.title, err)
		}
		verb := "Created"
		if !resp.IsNew {
			verb = "Already seeded"
		}
		log.Printf("[seed] [%d/%d] %s: %s (id=%d)", i+1, len(demoTodos), verb, resp.Title, resp.ID)
	}

	log.Printf("[seed] Done. %d todos added.", len(demoTodos))
	return nil
}

// Stop is a no-op; the module holds no resources.
func (m *SeedModule) Stop(_ context.Context) error {
	return nil
}
