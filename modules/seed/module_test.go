package seed

import (
	"context"
	"testing"
	"time"

	"github.com/example/todo-service/modules/todo"
)

// mockTodoPort records every create request it receives.
type mockTodoPort struct {
	requests []*todo.CreateTodoRequest
	nextID   uint
}

func (m *mockTodoPort) CreateTodo(_ context.Context, req *todo.CreateTodoRequest) (*todo.CreateTodoResponse, error) {
	m.requests = append(m.requests, req)
	m.nextID++
	return &todo.CreateTodoResponse{
		ID:        m.nextID,
		Title:     req.Title,
		CreatedAt: time.Now(),
		IsNew:     true,
	}, nil
}

func (m *mockTodoPort) GetTodo(context.Context, uint) (*todo.TodoResponse, error) {
	return nil, nil
}

func (m *mockTodoPort) ListTodos(context.Context, *todo.ListTodosRequest) (*todo.ListTodosResponse, error) {
	return nil, nil
}

func (m *mockTodoPort) ListCompleted(context.Context) (*todo.ListCompletedResponse, error) {
	return nil, nil
}

func (m *mockTodoPort) UpdateTodo(context.Context, *todo.UpdateTodoRequest) (*todo.TodoResponse, error) {
	return nil, nil
}

func (m *mockTodoPort) SoftDeleteTodo(context.Context, uint) error {
	return nil
}

func (m *mockTodoPort) HardDeleteTodo(context.Context, uint) error {
	return nil
}

func (m *mockTodoPort) RestoreTodo(context.Context, uint) (*todo.TodoResponse, error) {
	return nil, nil
}

func TestSeedKeysAreStableAcrossRestarts(t *testing.T) {
	mock := &mockTodoPort{}
	m := &SeedModule{todoAdapter: mock, enabled: true}
	ctx := context.Background()

	// Two Start calls stand in for two process starts against one database.
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := m.Start(ctx); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	n := len(demoTodos)
	if len(mock.requests) != 2*n {
		t.Fatalf("expected %d create requests, got %d", 2*n, len(mock.requests))
	}

	for i := 0; i < n; i++ {
		first := mock.requests[i]
		second := mock.requests[n+i]
		if first.IdempotencyKey == "" {
			t.Errorf("todo %q seeded without an idempotency key", first.Title)
		}
		if first.IdempotencyKey != second.IdempotencyKey {
			t.Errorf("todo %q key changed across restarts: %q vs %q",
				first.Title, first.IdempotencyKey, second.IdempotencyKey)
		}
	}
}

func TestSeedKeysAreDistinctPerItem(t *testing.T) {
	seen := make(map[string]string)
	for _, item := range demoTodos {
		key := seedKey(item.title)
		if len(key) > 50 {
			t.Errorf("key for %q exceeds the ledger column size: %d chars", item.title, len(key))
		}
		if other, ok := seen[key]; ok {
			t.Errorf("todos %q and %q share key %q", item.title, other, key)
		}
		seen[key] = item.title
	}
}

func TestSeedDisabledDoesNothing(t *testing.T) {
	mock := &mockTodoPort{}
	m := &SeedModule{todoAdapter: mock, enabled: false}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(mock.requests) != 0 {
		t.Errorf("expected no create requests while disabled, got %d", len(mock.requests))
	}
}
