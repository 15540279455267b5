package api

import (
	"fmt"
	"strconv"

	"github.com/example/todo-service/modules/todo"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit        = 10
	maxPageLimit            = 20
	maxTitleLength          = 255
	maxQueryLength          = 100
	maxIdempotencyKeyLength = 50
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	// Health check endpoint
	m.app.Get("/health", m.healthHandler)

	// Todo endpoints
	todos := m.app.Group("/todos")
	todos.Post("/", m.createTodo)
	todos.Get("/", m.listTodos)
	todos.Get("/completed", m.listCompleted)
	todos.Post("/:id/restore", m.restoreTodo)
	todos.Delete("/:id/hard", m.hardDeleteTodo)
	todos.Get("/:id", m.getTodo)
	todos.Put("/:id", m.updateTodo)
	todos.Delete("/:id", m.softDeleteTodo)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// parseID extracts and validates the numeric id path parameter.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid todo id: %q", c.Params("id"))
	}
	return uint(id), nil
}

// queryInt parses an integer query parameter, returning def when the
// parameter is absent. Unlike fiber's QueryInt it rejects non-numeric
// values instead of silently falling back to the default.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	if !c.Request().URI().QueryArgs().Has(key) {
		return def, nil
	}
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, c.Query(key))
	}
	return value, nil
}

// createTodo handles POST /todos/.
// A replayed Idempotency-Key returns the originally created todo with the
// same 201 status as the first call.
func (m *APIModule) createTodo(c *fiber.Ctx) error {
	var req CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	// Validate required fields
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Title is required",
		})
	}
	if len(req.Title) > maxTitleLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: fmt.Sprintf("Title must be at most %d characters", maxTitleLength),
		})
	}

	idempotencyKey := c.Get("Idempotency-Key")
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: fmt.Sprintf("Idempotency-Key must be at most %d characters", maxIdempotencyKeyLength),
		})
	}

	isCompleted := false
	if req.IsCompleted != nil {
		isCompleted = *req.IsCompleted
	}

	resp, err := m.todoAdapter.CreateTodo(c.Context(), &todo.CreateTodoRequest{
		Title:          req.Title,
		Description:    req.Description,
		IsCompleted:    isCompleted,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "create_failed",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(TodoResponse{
		ID:          resp.ID,
		Title:       resp.Title,
		Description: resp.Description,
		IsCompleted: resp.IsCompleted,
		CreatedAt:   resp.CreatedAt,
	})
}

// listTodos handles GET /todos/.
func (m *APIModule) listTodos(c *fiber.Ctx) error {
	page, err := queryInt(c, "page", 1)
	if err != nil || page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Page must be a number of at least 1",
		})
	}

	limit, err := queryInt(c, "limit", defaultPageLimit)
	if err != nil || limit < 1 || limit > maxPageLimit {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: fmt.Sprintf("Limit must be a number between 1 and %d", maxPageLimit),
		})
	}

	var query string
	if c.Request().URI().QueryArgs().Has("q") {
		query = c.Query("q")
		if len(query) < 1 || len(query) > maxQueryLength {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "validation_error",
				Message: fmt.Sprintf("Search query must be between 1 and %d characters", maxQueryLength),
			})
		}
	}

	resp, err := m.todoAdapter.ListTodos(c.Context(), &todo.ListTodosRequest{
		Page:  page,
		Limit: limit,
		Query: query,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "list_failed",
			Message: err.Error(),
		})
	}

	data := make([]TodoResponse, 0, len(resp.Todos))
	for _, t := range resp.Todos {
		data = append(data, toTodoResponse(t))
	}

	totalPages := 0
	if resp.Total > 0 {
		totalPages = int((resp.Total + int64(limit) - 1) / int64(limit))
	}

	return c.JSON(PaginatedTodosResponse{
		Data: data,
		Pagination: PaginationInfo{
			Page:        page,
			Limit:       limit,
			TotalItems:  resp.Total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	})
}

// listCompleted handles GET /todos/completed.
func (m *APIModule) listCompleted(c *fiber.Ctx) error {
	resp, err := m.todoAdapter.ListCompleted(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "list_failed",
			Message: err.Error(),
		})
	}

	data := make([]TodoResponse, 0, len(resp.Todos))
	for _, t := range resp.Todos {
		data = append(data, toTodoResponse(t))
	}
	return c.JSON(data)
}

// getTodo handles GET /todos/:id.
func (m *APIModule) getTodo(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	}

	resp, err := m.todoAdapter.GetTodo(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("TODO item not found with id %d", id),
		})
	}

	return c.JSON(toTodoResponse(*resp))
}

// updateTodo handles PUT /todos/:id.
func (m *APIModule) updateTodo(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	}

	var req UpdateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	if req.Title != nil {
		if *req.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "validation_error",
				Message: "Title cannot be empty",
			})
		}
		if len(*req.Title) > maxTitleLength {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "validation_error",
				Message: fmt.Sprintf("Title must be at most %d characters", maxTitleLength),
			})
		}
	}

	resp, err := m.todoAdapter.UpdateTodo(c.Context(), &todo.UpdateTodoRequest{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("TODO item not found with id %d", id),
		})
	}

	return c.JSON(toTodoResponse(*resp))
}

// softDeleteTodo handles DELETE /todos/:id.
func (m *APIModule) softDeleteTodo(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	}

	if err := m.todoAdapter.SoftDeleteTodo(c.Context(), id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("TODO item not found or already deleted with id %d", id),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// hardDeleteTodo handles DELETE /todos/:id/hard.
func (m *APIModule) hardDeleteTodo(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	}

	if err := m.todoAdapter.HardDeleteTodo(c.Context(), id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("TODO item not found with id %d", id),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// restoreTodo handles POST /todos/:id/restore.
func (m *APIModule) restoreTodo(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	}

	resp, err := m.todoAdapter.RestoreTodo(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("TODO item not found or not deleted with id %d", id),
		})
	}

	return c.JSON(toTodoResponse(*resp))
}

// toTodoResponse converts a todo service response to the HTTP representation.
func toTodoResponse(t todo.TodoResponse) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
	}
}
