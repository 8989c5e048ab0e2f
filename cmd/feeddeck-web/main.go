package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	feeddeck "github.com/feeddeck/feeddeck"
	"github.com/feeddeck/feeddeck/internal/storage"
	"gopkg.in/yaml.v3"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to config file")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "feeddeck-web: %v\n", err)
		os.Exit(1)
	}

	engine, err := feeddeck.NewEngine(feeddeck.EngineConfig{
		Backend:     cfg.Storage.Backend,
		DataDir:     cfg.Storage.Dir,
		DBPath:      cfg.Storage.DBPath,
		HTTPTimeout: time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		UserAgent:   cfg.Fetch.UserAgent,
		MaxItems:    cfg.Fetch.MaxItems,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "feeddeck-web: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	// Session state starts from the config file; the user mutates it
	// through the settings forms for the lifetime of the process.
	sess := newSession(cfg)

	mux := newRouter(engine, sess)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      logging(recovery(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("feeddeck-web: listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("feeddeck-web: %v", err)
		}
	}()

	<-done
	log.Println("feeddeck-web: shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("feeddeck-web: shutdown error: %v", err)
	}
	log.Println("feeddeck-web: stopped")
}

func loadConfig(path string) (*storage.Config, error) {
	cfg := storage.DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
