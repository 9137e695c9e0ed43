package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldpulse/fieldpulse/internal/auth"
	"github.com/fieldpulse/fieldpulse/internal/config"
	"github.com/fieldpulse/fieldpulse/internal/server"
	"github.com/fieldpulse/fieldpulse/internal/warehouse"
)

func main() {
	competitorPath := flag.String("competitors", "", "Path to competitor override file (default: config/competitors.yaml)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Overlay the competitor set from the optional YAML side file
	if *competitorPath == "" {
		defaultPath := "config/competitors.yaml"
		if _, err := os.Stat(defaultPath); err == nil {
			*competitorPath = defaultPath
		}
	}
	if *competitorPath != "" {
		if err := cfg.LoadCompetitorFile(*competitorPath); err != nil {
			log.Fatalf("Failed to load competitor file: %v", err)
		}
		log.Printf("Using competitor config: %s", *competitorPath)
	}

	// Open the warehouse
	wh, err := warehouse.Open(cfg.Storage.WarehousePath)
	if err != nil {
		log.Fatalf("Failed to open warehouse: %v", err)
	}
	defer wh.Close()

	// Initialize the credential store and seed the default accounts
	users := auth.NewUserStore(cfg.Storage.UsersFile)
	if err := seedDefaultUsers(users); err != nil {
		log.Fatalf("Failed to seed default users: %v", err)
	}

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resolve the company comparison set once at startup
	companies := warehouse.ResolveCompanies(ctx, wh, cfg.Company)

	addr, _, err := server.Start(ctx, cfg, wh, users, companies)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("FieldPulse dashboard running at http://%s", addr)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
	time.Sleep(1 * time.Second) // Give time for connections to close
}

// seedDefaultUsers creates the built-in admin and customer accounts on first
// run; existing accounts are left alone.
func seedDefaultUsers(users *auth.UserStore) error {
	defaults := []struct {
		username, password, role string
	}{
		{"admin", "adminpass", auth.RoleAdmin},
		{"customer", "customer123", auth.RoleCustomerAdmin},
	}

	for _, d := range defaults {
		exists, err := users.Has(d.username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := users.Add(d.username, d.password, d.role); err != nil {
			return err
		}
	}
	return nil
}
