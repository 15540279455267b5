package todo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// todoAdapter wraps ServiceContainer for type-safe cross-module communication.
// This is the adapter that implements the TodoPort interface.
type todoAdapter struct {
	container mono.ServiceContainer
}

// NewTodoAdapter creates a new adapter for todo services.
// container is the ServiceContainer from the todo module received via
// SetDependencyServiceContainer.
func NewTodoAdapter(container mono.ServiceContainer) TodoPort {
	if container == nil {
		panic("todo adapter requires non-nil ServiceContainer")
	}
	return &todoAdapter{container: container}
}

// CreateTodo creates a new todo via the create service.
func (a *todoAdapter) CreateTodo(ctx context.Context, req *CreateTodoRequest) (*CreateTodoResponse, error) {
	var resp CreateTodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create service call failed: %w", err)
	}
	return &resp, nil
}

// GetTodo retrieves a todo by ID via the get service.
func (a *todoAdapter) GetTodo(ctx context.Context, id uint) (*TodoResponse, error) {
	req := GetTodoRequest{ID: id}
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get service call failed: %w", err)
	}
	return &resp, nil
}

// ListTodos lists active todos with pagination via the list service.
func (a *todoAdapter) ListTodos(ctx context.Context, req *ListTodosRequest) (*ListTodosResponse, error) {
	var resp ListTodosResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list service call failed: %w", err)
	}
	return &resp, nil
}

// ListCompleted lists all completed todos via the list-completed service.
func (a *todoAdapter) ListCompleted(ctx context.Context) (*ListCompletedResponse, error) {
	req := ListCompletedRequest{}
	var resp ListCompletedResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-completed",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-completed service call failed: %w", err)
	}
	return &resp, nil
}

// UpdateTodo partially updates a todo via the update service.
func (a *todoAdapter) UpdateTodo(ctx context.Context, req *UpdateTodoRequest) (*TodoResponse, error) {
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("update service call failed: %w", err)
	}
	return &resp, nil
}

// SoftDeleteTodo soft-deletes a todo via the delete service.
func (a *todoAdapter) SoftDeleteTodo(ctx context.Context, id uint) error {
	req := DeleteTodoRequest{ID: id}
	var resp DeleteTodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("delete service call failed: %w", err)
	}
	if !resp.Deleted {
		return fmt.Errorf("todo not deleted: %d", id)
	}
	return nil
}

// HardDeleteTodo permanently deletes a todo via the hard-delete service.
func (a *todoAdapter) HardDeleteTodo(ctx context.Context, id uint) error {
	req := DeleteTodoRequest{ID: id}
	var resp DeleteTodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"hard-delete",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("hard-delete service call failed: %w", err)
	}
	if !resp.Deleted {
		return fmt.Errorf("todo not deleted: %d", id)
	}
	return nil
}

// RestoreTodo restores a soft-deleted todo via the restore service.
func (a *todoAdapter) RestoreTodo(ctx context.Context, id uint) (*TodoResponse, error) {
	req := RestoreTodoRequest{ID: id}
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"restore",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("restore service call failed: %w", err)
	}
	return &resp, nil
}
