package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/upload-server/modules/httpserver"
	"github.com/example/upload-server/modules/storage"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const (
	shutdownTimeout = 30 * time.Second

	// quitDelay gives the browser time to fetch the page's assets
	// before the debug one-request quit fires.
	quitDelay = 150 * time.Millisecond
)

func main() {
	// Load configuration from environment
	listenAddr := getEnv("LISTEN_ADDR", "0.0.0.0:2022")
	uploadsDir := getEnv("UPLOADS_DIR", "/var/upload-server/uploads")
	displayName := getEnv("DISPLAY_NAME", "Anonymousse")
	saveMetadata := getEnvBool("SAVE_METADATA", false)
	quitAfterOne := getEnvBool("QUIT_AFTER_ONE_REQUEST", false)

	log.Println("=== Upload Server ===")
	log.Printf("Listen Address: %s", listenAddr)
	log.Printf("Uploads Directory: %s", uploadsDir)
	log.Printf("Display Name: %s", displayName)
	log.Printf("Save Metadata: %t", saveMetadata)

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Create modules
	storageModule := storage.NewModule(uploadsDir, app.Logger())
	httpServerModule := httpserver.NewModule(httpserver.Config{
		ListenAddr:          listenAddr,
		DisplayName:         displayName,
		SaveMetadata:        saveMetadata,
		QuitAfterOneRequest: quitAfterOne,
	}, app.Logger())

	// Wire up dependencies
	httpServerModule.SetStorageModule(storageModule)

	// Register modules
	app.Register(storageModule)
	app.Register(httpServerModule)

	// Start the application; an unusable uploads directory or listen
	// address aborts before any request is served.
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("Server available at http://%s", listenAddr)
	log.Println("Endpoints:")
	log.Println("  GET  /               - Home page")
	log.Println("  GET  /assets/:name   - Static assets")
	log.Println("  POST /text           - Save a text snippet")
	log.Println("  POST /file           - Upload a file")
	log.Println("Press Ctrl+C to shutdown")

	// Debug-only: quit shortly after the first request completes, via
	// an explicit timer owned here rather than a detached task.
	if quitAfterOne {
		go func() {
			<-httpServerModule.FirstRequestHandled()
			timer := time.NewTimer(quitDelay)
			defer timer.Stop()
			<-timer.C
			log.Println("Handled only one request for debugging. Quitting.")
			if err := app.Stop(context.Background()); err != nil {
				log.Printf("Stop error during debug quit: %v", err)
			}
			os.Exit(0)
		}()
	}

	// Setup graceful shutdown
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

	// Wait for shutdown signal
	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}
