package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TodoModule provides todo management services via GORM + SQLite.
type TodoModule struct {
	db     *gorm.DB
	repo   *Repository
	dbPath string
}

// Compile-time interface checks.
var _ mono.Module = (*TodoModule)(nil)
var _ mono.ServiceProviderModule = (*TodoModule)(nil)
var _ mono.HealthCheckableModule = (*TodoModule)(nil)

// NewModule creates a new TodoModule.
func NewModule() *TodoModule {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "todos.db"
	}
	return &TodoModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TodoModule) Name() string {
	return "todo"
}

// Health performs a health check on the todo module.
func (m *TodoModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework automatically prefixes service names with "services.<module>."
// so "create" becomes "services.todo.create" in the NATS subject.
func (m *TodoModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.createTodo,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getTodo,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listTodos,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-completed", json.Unmarshal, json.Marshal, m.listCompleted,
	); err != nil {
		return fmt.Errorf("failed to register list-completed service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update", json.Unmarshal, json.Marshal, m.updateTodo,
	); err != nil {
		return fmt.Errorf("failed to register update service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.softDeleteTodo,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "hard-delete", json.Unmarshal, json.Marshal, m.hardDeleteTodo,
	); err != nil {
		return fmt.Errorf("failed to register hard-delete service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "restore", json.Unmarshal, json.Marshal, m.restoreTodo,
	); err != nil {
		return fmt.Errorf("failed to register restore service: %w", err)
	}

	log.Printf("[todo] Registered services: services.todo.{create,get,list,list-completed,update,delete,hard-delete,restore}")
	return nil
}

// Start initializes the database connection and runs migrations.
func (m *TodoModule) Start(_ context.Context) error {
	log.Printf("[todo] Connecting to SQLite database: %s", m.dbPath)

	// Configure GORM logger based on environment
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	// TranslateError lets the idempotency race surface as
	// gorm.ErrDuplicatedKey instead of a raw sqlite error.
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	m.db = db

	// Run auto-migrations
	if err := m.db.AutoMigrate(&Todo{}, &TodoIdempotency{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize repository
	m.repo = NewRepository(m.db)

	log.Println("[todo] Module started successfully")
	return nil
}

// Stop gracefully closes the database connection.
func (m *TodoModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	log.Println("[todo] Closing database connection...")

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[todo] Database connection closed")
	return nil
}
