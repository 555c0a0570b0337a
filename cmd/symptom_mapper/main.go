package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-symptom-mapper/api"
	"github.com/gcbaptista/go-symptom-mapper/config"
	"github.com/gcbaptista/go-symptom-mapper/internal/engine"
	"github.com/gcbaptista/go-symptom-mapper/store"
)

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		port       = flag.String("port", "8080", "Port to run the server on")
		dbPath     = flag.String("db", "", "SQLite database file (empty keeps everything in memory)")
		configPath = flag.String("config", "", "YAML file with matcher settings")
		seedPath   = flag.String("seed", "", "YAML vocabulary file loaded into the store before startup")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Go Symptom Mapper - Maps free-text Korean symptom descriptions to canonical codes\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s --seed vocab.yaml                  # In-memory store seeded from a file\n", os.Args[0])
		fmt.Printf("  %s --db ./data/symptoms.db --port 9000 # Persistent store on port 9000\n", os.Args[0])
		fmt.Printf("  %s --db ./data/symptoms.db --config matcher.yaml\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Go Symptom Mapper v1.0.0\n")
		fmt.Printf("Typo-tolerant dictionary matching with background reloads and unmapped-term feedback\n")
		return
	}

	settings := config.DefaultMatcherSettings()
	if *configPath != "" {
		loaded, err := config.LoadMatcherSettings(*configPath)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		settings = loaded
		log.Printf("Using matcher settings from %s", *configPath)
	}

	backend, err := store.OpenBackend(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Printf("Warning: failed to close store: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seedPath != "" {
		vocab, err := store.LoadVocabularyFile(*seedPath)
		if err != nil {
			log.Fatalf("Failed to load vocabulary: %v", err)
		}
		result, err := store.Seed(ctx, backend, vocab)
		if err != nil {
			log.Fatalf("Failed to seed vocabulary: %v", err)
		}
		log.Printf("Seeded %d symptoms, %d aliases and %d typo rules from %s",
			result.Symptoms, result.Aliases, result.TypoRules, *seedPath)
	}

	eng, err := engine.New(ctx, backend, backend, settings)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	defer eng.Close()

	// Initialize Gin router
	router := gin.Default()
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(api.MaxRequestBodySize))

	// Setup API routes
	api.SetupRoutes(router, eng)

	server := &http.Server{
		Addr:              ":" + *port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s...", *port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: graceful shutdown failed: %v", err)
	}
}
