package todo

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
)

const maxTitleLength = 255

// createTodo handles the todo.create service request. When an idempotency
// key is present, a replayed key returns the todo the first call produced
// instead of creating a second one.
func (m *TodoModule) createTodo(_ context.Context, req CreateTodoRequest, _ *mono.Msg) (CreateTodoResponse, error) {
	if req.Title == "" {
		return CreateTodoResponse{}, fmt.Errorf("title is required")
	}
	if len(req.Title) > maxTitleLength {
		return CreateTodoResponse{}, fmt.Errorf("title must be at most %d characters", maxTitleLength)
	}

	// Create entity (GORM assigns ID and CreatedAt)
	item := &Todo{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	}

	saved, isNew, err := m.repo.CreateWithIdempotency(item, req.IdempotencyKey)
	if err != nil {
		return CreateTodoResponse{}, fmt.Errorf("failed to save todo: %w", err)
	}

	return CreateTodoResponse{
		ID:          saved.ID,
		Title:       saved.Title,
		Description: saved.Description,
		IsCompleted: saved.IsCompleted,
		CreatedAt:   saved.CreatedAt,
		IsNew:       isNew,
	}, nil
}

// getTodo handles the todo.get service request.
func (m *TodoModule) getTodo(_ context.Context, req GetTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	item, err := m.repo.FindByID(req.ID)
	if err != nil {
		return TodoResponse{}, err
	}
	return toTodoResponse(item), nil
}

// listTodos handles the todo.list service request. Page/limit bounds are
// enforced at the HTTP boundary before the request reaches this layer.
func (m *TodoModule) listTodos(_ context.Context, req ListTodosRequest, _ *mono.Msg) (ListTodosResponse, error) {
	items, total, err := m.repo.List(req.Page, req.Limit, req.Query)
	if err != nil {
		return ListTodosResponse{}, err
	}

	response := ListTodosResponse{
		Todos: make([]TodoResponse, 0, len(items)),
		Total: total,
	}
	for _, item := range items {
		response.Todos = append(response.Todos, toTodoResponse(item))
	}
	return response, nil
}

// listCompleted handles the todo.list-completed service request.
func (m *TodoModule) listCompleted(_ context.Context, _ ListCompletedRequest, _ *mono.Msg) (ListCompletedResponse, error) {
	items, err := m.repo.FindCompleted()
	if err != nil {
		return ListCompletedResponse{}, err
	}

	response := ListCompletedResponse{
		Todos: make([]TodoResponse, 0, len(items)),
		Total: len(items),
	}
	for _, item := range items {
		response.Todos = append(response.Todos, toTodoResponse(item))
	}
	return response, nil
}

// updateTodo handles the todo.update service request. Only fields present in
// the request are applied; unset fields are left untouched.
func (m *TodoModule) updateTodo(_ context.Context, req UpdateTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	item, err := m.repo.FindByID(req.ID)
	if err != nil {
		return TodoResponse{}, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return TodoResponse{}, fmt.Errorf("title cannot be empty")
		}
		if len(*req.Title) > maxTitleLength {
			return TodoResponse{}, fmt.Errorf("title must be at most %d characters", maxTitleLength)
		}
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.IsCompleted != nil {
		item.IsCompleted = *req.IsCompleted
	}

	if err := m.repo.Update(item); err != nil {
		return TodoResponse{}, err
	}

	return toTodoResponse(item), nil
}

// softDeleteTodo handles the todo.delete service request.
func (m *TodoModule) softDeleteTodo(_ context.Context, req DeleteTodoRequest, _ *mono.Msg) (DeleteTodoResponse, error) {
	if err := m.repo.SoftDelete(req.ID); err != nil {
		return DeleteTodoResponse{Deleted: false, ID: req.ID}, err
	}
	return DeleteTodoResponse{Deleted: true, ID: req.ID}, nil
}

// hardDeleteTodo handles the todo.hard-delete service request. Hard delete
// is permitted regardless of soft-delete state and is irreversible.
func (m *TodoModule) hardDeleteTodo(_ context.Context, req DeleteTodoRequest, _ *mono.Msg) (DeleteTodoResponse, error) {
	if err := m.repo.HardDelete(req.ID); err != nil {
		return DeleteTodoResponse{Deleted: false, ID: req.ID}, err
	}
	return DeleteTodoResponse{Deleted: true, ID: req.ID}, nil
}

// restoreTodo handles the todo.restore service request.
func (m *TodoModule) restoreTodo(_ context.Context, req RestoreTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	item, err := m.repo.Restore(req.ID)
	if err != nil {
		return TodoResponse{}, err
	}
	return toTodoResponse(item), nil
}

// toTodoResponse converts a Todo entity to a TodoResponse.
func toTodoResponse(item *Todo) TodoResponse {
	return TodoResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		IsCompleted: item.IsCompleted,
		CreatedAt:   item.CreatedAt,
	}
}
