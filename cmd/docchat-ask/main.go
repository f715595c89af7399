package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"docchat/internal/backend"
	"docchat/internal/config"
)

// One-shot mode: ask a single question from the command line and print the
// answer with its sources, without starting the interactive UI.
func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()
	if len(flag.Args()) == 0 {
		fmt.Println("Usage: docchat-ask [--config=config.yaml] \"your question\"")
		os.Exit(1)
	}
	question := strings.Join(flag.Args(), " ")

	var cfg *config.AppConfig
	var err error
	if *cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if v := os.Getenv("DOCCHAT_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}

	client := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
	})

	answer, err := client.Ask(context.Background(), question)
	if err != nil {
		log.Fatalf("ask failed: %v", err)
	}
	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Println("Sources: " + strings.Join(answer.Sources, ", "))
	}
}
