package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/todo-service/modules/api"
	"github.com/example/todo-service/modules/seed"
	"github.com/example/todo-service/modules/todo"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Personal TODO Service ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies.
	app.Register(todo.NewModule()) // Core domain (GORM + SQLite)
	app.Register(seed.NewModule()) // Optional demo-data seeding (depends on todo)
	app.Register(api.NewModule())  // Driving adapter (depends on todo)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("  POST   /todos/              - Create a todo (supports Idempotency-Key header)")
	log.Println("  GET    /todos/              - List todos (page, limit, q)")
	log.Println("  GET    /todos/completed     - List completed todos")
	log.Println("  GET    /todos/:id           - Get a todo by ID")
	log.Println("  PUT    /todos/:id           - Update a todo")
	log.Println("  DELETE /todos/:id           - Soft-delete a todo")
	log.Println("  DELETE /todos/:id/hard      - Hard-delete a todo")
	log.Println("  POST   /todos/:id/restore   - Restore a soft-deleted todo")
	log.Println("  GET    /health              - Health check")
	log.Println("")
	log.Println("Set SEED_DEMO_DATA=true to seed demo todos on startup")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
