package main

import (
	"flag"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docchat/internal/backend"
	"docchat/internal/chat"
	"docchat/internal/config"
	"docchat/internal/domain"
	"docchat/internal/history"
	"docchat/internal/logging"
	"docchat/internal/monitor"
	"docchat/internal/registry"
	"docchat/internal/tui"
	"docchat/internal/upload"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docchat/config.yaml if not provided)")
	noHistory := flag.Bool("no-history", false, "Keep the conversation in memory only for this session")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if v := os.Getenv("DOCCHAT_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Path: cfg.Logging.Path})
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer logger.Sync()

	client := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
	})

	var store domain.HistoryStore
	if cfg.History.Disabled || *noHistory {
		store = history.NewMemoryStore()
	} else {
		store = history.NewFileStore(cfg.History.Path, logger)
	}

	controller := chat.NewController(client, store, logger)
	reg := registry.NewClient(client, logger)
	mon := monitor.New(client, logger)
	coordinator := upload.NewCoordinator(client, reg, controller, logger)

	m := tui.New(controller, coordinator, mon, reg)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
