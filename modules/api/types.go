package api

import "time"

// CreateTodoRequest is the HTTP request for creating a todo.
type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

// UpdateTodoRequest is the HTTP request for partially updating a todo.
// Absent fields are left untouched.
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

// TodoResponse is the HTTP representation of a single todo.
type TodoResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// PaginationInfo is the pagination metadata attached to list responses.
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// PaginatedTodosResponse is the HTTP response for the paginated listing.
type PaginatedTodosResponse struct {
	Data       []TodoResponse `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
