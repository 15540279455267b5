package todo

import (
	"context"
	"time"
)

// CreateTodoRequest is the request for creating a todo. IdempotencyKey is
// optional; when present, a replay with the same key returns the todo the
// first call produced.
type CreateTodoRequest struct {
	Title          string  `json:"title"`
	Description    *string `json:"description,omitempty"`
	IsCompleted    bool    `json:"is_completed"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
}

// CreateTodoResponse is the response after creating a todo.
type CreateTodoResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	IsNew       bool      `json:"is_new"`
}

// GetTodoRequest is the request for getting a todo.
type GetTodoRequest struct {
	ID uint `json:"id"`
}

// TodoResponse represents a todo in responses.
type TodoResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListTodosRequest is the request for listing todos with pagination.
type ListTodosRequest struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Query string `json:"query,omitempty"`
}

// ListTodosResponse is the response containing one page of todos and the
// total match count before pagination.
type ListTodosResponse struct {
	Todos []TodoResponse `json:"todos"`
	Total int64          `json:"total"`
}

// ListCompletedRequest is the request for listing completed todos.
type ListCompletedRequest struct{}

// ListCompletedResponse is the response containing all completed todos.
type ListCompletedResponse struct {
	Todos []TodoResponse `json:"todos"`
	Total int            `json:"total"`
}

// UpdateTodoRequest is the request for partially updating a todo. Only
// non-nil fields are applied.
type UpdateTodoRequest struct {
	ID          uint    `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

// DeleteTodoRequest is the request for soft- or hard-deleting a todo.
type DeleteTodoRequest struct {
	ID uint `json:"id"`
}

// DeleteTodoResponse is the response after a delete attempt.
type DeleteTodoResponse struct {
	Deleted bool `json:"deleted"`
	ID      uint `json:"id"`
}

// RestoreTodoRequest is the request for restoring a soft-deleted todo.
type RestoreTodoRequest struct {
	ID uint `json:"id"`
}

// TodoPort defines the interface for todo operations. Driving adapters
// (like the HTTP API) use this contract to reach the core domain.
type TodoPort interface {
	CreateTodo(ctx context.Context, req *CreateTodoRequest) (*CreateTodoResponse, error)
	GetTodo(ctx context.Context, id uint) (*TodoResponse, error)
	ListTodos(ctx context.Context, req *ListTodosRequest) (*ListTodosResponse, error)
	ListCompleted(ctx context.Context) (*ListCompletedResponse, error)
	UpdateTodo(ctx context.Context, req *UpdateTodoRequest) (*TodoResponse, error)
	SoftDeleteTodo(ctx context.Context, id uint) error
	HardDeleteTodo(ctx context.Context, id uint) error
	RestoreTodo(ctx context.Context, id uint) (*TodoResponse, error)
}
