package todo

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&Todo{}, &TodoIdempotency{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func strPtr(s string) *string {
	return &s
}

func TestRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	item := &Todo{
		Title:       "Buy milk",
		Description: strPtr("2 liters"),
	}

	if err := repo.Create(item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if item.ID == 0 {
		t.Error("expected ID to be assigned by the database")
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be assigned by the database")
	}

	found, err := repo.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != item.Title {
		t.Errorf("expected title %q, got %q", item.Title, found.Title)
	}
	if found.Description == nil || *found.Description != "2 liters" {
		t.Errorf("expected description %q, got %v", "2 liters", found.Description)
	}
	if found.IsCompleted {
		t.Error("expected IsCompleted to default to false")
	}
}

func TestRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	item := &Todo{Title: "FindByID Test"}
	if err := repo.Create(item); err != nil {
		t.Fatalf("failed to create test todo: %v", err)
	}

	t.Run("existing todo", func(t *testing.T) {
		found, err := repo.FindByID(item.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.ID != item.ID {
			t.Errorf("expected ID %d, got %d", item.ID, found.ID)
		}
	})

	t.Run("non-existent todo", func(t *testing.T) {
		_, err := repo.FindByID(9999)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("soft-deleted todo", func(t *testing.T) {
		if err := repo.SoftDelete(item.ID); err != nil {
			t.Fatalf("SoftDelete() error = %v", err)
		}
		_, err := repo.FindByID(item.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after soft delete, got %v", err)
		}
	})
}

func TestRepository_CreateWithIdempotency(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	t.Run("new key creates a todo and a ledger row", func(t *testing.T) {
		item := &Todo{Title: "Pay rent"}
		created, isNew, err := repo.CreateWithIdempotency(item, "key-rent-001")
		if err != nil {
			t.Fatalf("CreateWithIdempotency() error = %v", err)
		}
		if !isNew {
			t.Error("expected isNew = true for a fresh key")
		}
		if created.ID == 0 {
			t.Error("expected ID to be assigned")
		}

		var records int64
		if err := db.Model(&TodoIdempotency{}).Where("idempotency_key = ?", "key-rent-001").Count(&records).Error; err != nil {
			t.Fatalf("failed to count ledger rows: %v", err)
		}
		if records != 1 {
			t.Errorf("expected 1 ledger row, got %d", records)
		}
	})

	t.Run("replayed key returns the same todo without creating", func(t *testing.T) {
		first := &Todo{Title: "Call plumber"}
		created, _, err := repo.CreateWithIdempotency(first, "key-plumber-001")
		if err != nil {
			t.Fatalf("CreateWithIdempotency() error = %v", err)
		}

		replay := &Todo{Title: "Call plumber"}
		replayed, isNew, err := repo.CreateWithIdempotency(replay, "key-plumber-001")
		if err != nil {
			t.Fatalf("CreateWithIdempotency() replay error = %v", err)
		}
		if isNew {
			t.Error("expected isNew = false on replay")
		}
		if replayed.ID != created.ID {
			t.Errorf("expected replay to return id %d, got %d", created.ID, replayed.ID)
		}

		var items int64
		if err := db.Model(&Todo{}).Where("title = ?", "Call plumber").Count(&items).Error; err != nil {
			t.Fatalf("failed to count todos: %v", err)
		}
		if items != 1 {
			t.Errorf("expected exactly 1 todo for the key, got %d", items)
		}
	})

	t.Run("no key always creates", func(t *testing.T) {
		a, isNewA, err := repo.CreateWithIdempotency(&Todo{Title: "No key"}, "")
		if err != nil {
			t.Fatalf("CreateWithIdempotency() error = %v", err)
		}
		b, isNewB, err := repo.CreateWithIdempotency(&Todo{Title: "No key"}, "")
		if err != nil {
			t.Fatalf("CreateWithIdempotency() error = %v", err)
		}
		if !isNewA || !isNewB {
			t.Error("expected both creates to be new without a key")
		}
		if a.ID == b.ID {
			t.Errorf("expected distinct ids, both got %d", a.ID)
		}
	})

	t.Run("replay resolves even after soft delete", func(t *testing.T) {
		item := &Todo{Title: "Ephemeral"}
		created, _, err := repo.CreateWithIdempotency(item, "key-ephemeral-001")
		if err != nil {
			t.Fatalf("CreateWithIdempotency() error = %v", err)
		}
		if err := repo.SoftDelete(created.ID); err != nil {
			t.Fatalf("SoftDelete() error = %v", err)
		}

		replayed, isNew, err := repo.CreateWithIdempotency(&Todo{Title: "Ephemeral"}, "key-ephemeral-001")
		if err != nil {
			t.Fatalf("CreateWithIdempotency() replay error = %v", err)
		}
		if isNew || replayed.ID != created.ID {
			t.Errorf("expected replay of id %d, got id %d (isNew=%v)", created.ID, replayed.ID, isNew)
		}
	})
}

func TestRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	t.Run("empty database", func(t *testing.T) {
		todos, total, err := repo.List(1, 10, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 0 {
			t.Errorf("expected total 0, got %d", total)
		}
		if len(todos) != 0 {
			t.Errorf("expected 0 todos, got %d", len(todos))
		}
	})

	for i := 1; i <= 25; i++ {
		item := &Todo{Title: fmt.Sprintf("Task %02d", i)}
		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create test todo: %v", err)
		}
	}

	t.Run("last partial page", func(t *testing.T) {
		todos, total, err := repo.List(3, 10, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 25 {
			t.Errorf("expected total 25, got %d", total)
		}
		if len(todos) != 5 {
			t.Errorf("expected 5 todos on page 3, got %d", len(todos))
		}
	})

	t.Run("insertion order", func(t *testing.T) {
		todos, _, err := repo.List(1, 10, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		for i := 1; i < len(todos); i++ {
			if todos[i].ID <= todos[i-1].ID {
				t.Fatalf("expected ascending ids, got %d after %d", todos[i].ID, todos[i-1].ID)
			}
		}
		if todos[0].Title != "Task 01" {
			t.Errorf("expected first todo %q, got %q", "Task 01", todos[0].Title)
		}
	})

	t.Run("case-insensitive title filter", func(t *testing.T) {
		if err := repo.Create(&Todo{Title: "Buy MILK and eggs"}); err != nil {
			t.Fatalf("failed to create test todo: %v", err)
		}

		todos, total, err := repo.List(1, 10, "milk")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 1 {
			t.Errorf("expected total 1, got %d", total)
		}
		if len(todos) != 1 || todos[0].Title != "Buy MILK and eggs" {
			t.Errorf("unexpected filter result: %+v", todos)
		}
	})

	t.Run("total counts all matches, not just the page", func(t *testing.T) {
		todos, total, err := repo.List(1, 3, "task")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 25 {
			t.Errorf("expected total 25, got %d", total)
		}
		if len(todos) != 3 {
			t.Errorf("expected 3 todos on the page, got %d", len(todos))
		}
	})

	t.Run("soft-deleted todos are excluded", func(t *testing.T) {
		item := &Todo{Title: "Soon gone"}
		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create test todo: %v", err)
		}
		_, before, err := repo.List(1, 10, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if err := repo.SoftDelete(item.ID); err != nil {
			t.Fatalf("SoftDelete() error = %v", err)
		}
		_, after, err := repo.List(1, 10, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if after != before-1 {
			t.Errorf("expected total %d after soft delete, got %d", before-1, after)
		}
	})
}

func TestRepository_FindCompleted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	if err := repo.Create(&Todo{Title: "Open task"}); err != nil {
		t.Fatalf("failed to create test todo: %v", err)
	}
	done := &Todo{Title: "Done task", IsCompleted: true}
	if err := repo.Create(done); err != nil {
		t.Fatalf("failed to create test todo: %v", err)
	}
	deletedDone := &Todo{Title: "Deleted done task", IsCompleted: true}
	if err := repo.Create(deletedDone); err != nil {
		t.Fatalf("failed to create test todo: %v", err)
	}
	if err := repo.SoftDelete(deletedDone.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	todos, err := repo.FindCompleted()
	if err != nil {
		t.Fatalf("FindCompleted() error = %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("expected 1 completed todo, got %d", len(todos))
	}
	if todos[0].ID != done.ID {
		t.Errorf("expected id %d, got %d", done.ID, todos[0].ID)
	}
}

func TestRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	item := &Todo{Title: "Original", IsCompleted: true}
	if err := repo.Create(item); err != nil {
		t.Fatalf("failed to create test todo: %v", err)
	}

	t.Run("update existing todo", func(t *testing.T) {
		item.Title = "Updated"
		item.Description = strPtr("now with details")
		item.IsCompleted = false

		if err := repo.Update(item); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		found, err := repo.FindByID(item.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Title != "Updated" {
			t.Errorf("expected title %q, got %q", "Updated", found.Title)
		}
		if found.Description == nil || *found.Description != "now with details" {
			t.Errorf("expected description to be set, got %v", found.Description)
		}
		// is_completed=false must be written even though it is the zero value
		if found.IsCompleted {
			t.Error("expected IsCompleted false after update")
		}
	})

	t.Run("update non-existent todo", func(t *testing.T) {
		err := repo.Update(&Todo{ID: 9999, Title: "Nope"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update soft-deleted todo", func(t *testing.T) {
		if err := repo.SoftDelete(item.ID); err != nil {
			t.Fatalf("SoftDelete() error = %v", err)
		}
		item.Title = "Should not apply"
		err := repo.Update(item)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for soft-deleted todo, got %v", err)
		}
	})
}

func TestRepository_SoftDeleteAndRestore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	item := &Todo{Title: "Round trip", Description: strPtr("keep me intact")}
	if err := repo.Create(item); err != nil {
		t.Fatalf("failed to create test todo: %v", err)
	}

	if err := repo.SoftDelete(item.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	if _, err := repo.FindByID(item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after soft delete, got %v", err)
	}

	// Row still exists with deleted_at set
	var raw Todo
	if err := db.Unscoped().First(&raw, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("failed to find soft-deleted row: %v", err)
	}
	if !raw.DeletedAt.Valid {
		t.Error("expected DeletedAt to be set after soft delete")
	}

	t.Run("soft delete twice is not-found", func(t *testing.T) {
		err := repo.SoftDelete(item.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second soft delete, got %v", err)
		}
	})

	t.Run("restore brings the original back", func(t *testing.T) {
		restored, err := repo.Restore(item.ID)
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if restored.ID != item.ID {
			t.Errorf("expected id %d, got %d", item.ID, restored.ID)
		}
		if restored.Title != "Round trip" {
			t.Errorf("expected title %q, got %q", "Round trip", restored.Title)
		}
		if restored.Description == nil || *restored.Description != "keep me intact" {
			t.Errorf("expected description preserved, got %v", restored.Description)
		}
		if restored.IsCompleted {
			t.Error("expected IsCompleted false after restore")
		}

		if _, err := repo.FindByID(item.ID); err != nil {
			t.Errorf("expected todo visible after restore, got %v", err)
		}
	})

	t.Run("restore an active todo is not-found", func(t *testing.T) {
		_, err := repo.Restore(item.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound restoring an active todo, got %v", err)
		}
	})

	t.Run("restore a non-existent todo is not-found", func(t *testing.T) {
		_, err := repo.Restore(9999)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_HardDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	t.Run("hard delete an active todo", func(t *testing.T) {
		item := &Todo{Title: "Gone for good"}
		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create test todo: %v", err)
		}

		if err := repo.HardDelete(item.ID); err != nil {
			t.Fatalf("HardDelete() error = %v", err)
		}

		var count int64
		if err := db.Unscoped().Model(&Todo{}).Where("id = ?", item.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 0 {
			t.Errorf("expected row to be removed, found %d", count)
		}
	})

	t.Run("hard delete a soft-deleted todo", func(t *testing.T) {
		item := &Todo{Title: "Deleted twice over"}
		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create test todo: %v", err)
		}
		if err := repo.SoftDelete(item.ID); err != nil {
			t.Fatalf("SoftDelete() error = %v", err)
		}

		if err := repo.HardDelete(item.ID); err != nil {
			t.Fatalf("HardDelete() on soft-deleted todo error = %v", err)
		}

		// Unrecoverable afterwards
		if _, err := repo.Restore(item.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound restoring a hard-deleted todo, got %v", err)
		}
	})

	t.Run("hard delete a non-existent todo", func(t *testing.T) {
		err := repo.HardDelete(9999)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
