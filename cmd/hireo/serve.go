package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jonathan/hireo/internal/cache"
	"github.com/jonathan/hireo/internal/config"
	"github.com/jonathan/hireo/internal/server"
	"github.com/jonathan/hireo/internal/validation"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for generating CVs, cover letters,
thumbnails and live previews.

DATABASE_URL enables the profile and document endpoints. REDIS_ADDR moves the
thumbnail cache from memory to Redis.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, func(c *config.Config) {
		if cmd.Flags().Changed("port") {
			c.Port = strconv.Itoa(servePort)
		}
	})
	if err != nil {
		return err
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", cfg.Port)
	}

	srv, err := server.New(server.Config{
		Port:        port,
		DatabaseURL: cfg.DatabaseURL,
		Redis: cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      time.Duration(cfg.CacheTTLSeconds) * time.Second,
		},
		StrictTemplates: cfg.StrictTemplates,
		Checks: validation.Options{
			MaxPages:         cfg.MaxPages,
			ForbiddenPhrases: cfg.ForbiddenPhrases,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
