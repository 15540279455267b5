package todo

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a todo is not found, or is in the wrong
// soft-delete state for the requested operation.
var ErrNotFound = errors.New("todo not found")

// Repository provides access to todo storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new todo repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new todo to the database. The database assigns the ID and
// the creation timestamp.
func (r *Repository) Create(todo *Todo) error {
	if err := r.db.Create(todo).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// CreateWithIdempotency creates a todo with optional idempotency-key
// deduplication. When the key has been seen before, the todo it produced is
// returned and nothing is written. Otherwise the todo and its ledger row are
// inserted in a single transaction; two requests racing on the same key are
// resolved by the unique index on idempotency_key, and the loser returns the
// winner's todo as a replay.
//
// The second return value reports whether a new todo was created.
func (r *Repository) CreateWithIdempotency(todo *Todo, key string) (*Todo, bool, error) {
	if key != "" {
		existing, err := r.FindByIdempotencyKey(key)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, false, err
		}
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(todo).Error; err != nil {
			return err
		}
		if key != "" {
			record := &TodoIdempotency{
				IdempotencyKey: key,
				TodoID:         todo.ID,
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if key != "" && errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race on the key: the whole transaction rolled back,
			// so no orphaned todo exists. Return the winner's todo.
			existing, findErr := r.FindByIdempotencyKey(key)
			if findErr != nil {
				return nil, false, fmt.Errorf("failed to resolve idempotency replay: %w", err)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, true, nil
}

// FindByID retrieves an active (not soft-deleted) todo by its ID.
func (r *Repository) FindByID(id uint) (*Todo, error) {
	var todo Todo
	if err := r.db.First(&todo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return &todo, nil
}

// FindByIdempotencyKey returns the todo a key produced, or ErrNotFound when
// the key has never been seen. The item lookup is unscoped: the ledger
// promises "same key, same todo" even after a soft delete.
func (r *Repository) FindByIdempotencyKey(key string) (*Todo, error) {
	var record TodoIdempotency
	if err := r.db.First(&record, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}

	var todo Todo
	if err := r.db.Unscoped().First(&todo, "id = ?", record.TodoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find todo for idempotency key: %w", err)
	}
	return &todo, nil
}

// List retrieves active todos in insertion order, optionally filtered by a
// case-insensitive substring match on the title. It returns the page of
// todos plus the total match count before pagination. Page and limit bounds
// are validated at the HTTP boundary.
func (r *Repository) List(page, limit int, query string) ([]*Todo, int64, error) {
	base := r.db.Model(&Todo{}).Session(&gorm.Session{})
	if query != "" {
		base = base.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(query)+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	var todos []*Todo
	offset := (page - 1) * limit
	if err := base.Order("id ASC").Limit(limit).Offset(offset).Find(&todos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, total, nil
}

// FindCompleted retrieves all active todos with the completion flag set.
func (r *Repository) FindCompleted() ([]*Todo, error) {
	var todos []*Todo
	if err := r.db.Where("is_completed = ?", true).Order("id ASC").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to list completed todos: %w", err)
	}
	return todos, nil
}

// Update persists the mutable fields of an already-loaded active todo.
// Select forces zero values through, so is_completed=false is written.
func (r *Repository) Update(todo *Todo) error {
	result := r.db.Model(&Todo{}).
		Where("id = ?", todo.ID).
		Select("title", "description", "is_completed").
		Updates(todo)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks a todo deleted by setting its deletion timestamp. The
// default GORM scope only matches active rows, so an absent or already
// soft-deleted id is ErrNotFound.
func (r *Repository) SoftDelete(id uint) error {
	result := r.db.Delete(&Todo{}, id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to soft-delete todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Restore clears the deletion timestamp of a soft-deleted todo and returns
// the restored record. An absent or active id is ErrNotFound.
func (r *Repository) Restore(id uint) (*Todo, error) {
	result := r.db.Unscoped().Model(&Todo{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to restore todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(id)
}

// HardDelete permanently removes a todo row regardless of soft-delete state.
func (r *Repository) HardDelete(id uint) error {
	result := r.db.Unscoped().Delete(&Todo{}, id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to hard-delete todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
