package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"StockAssistant/internal/app"
	"StockAssistant/internal/config"
	"StockAssistant/internal/logging"
)

func main() {
	seedFile := flag.String("seed", "", "seed the vector store from a JSON dataset file and exit")
	query := flag.String("q", "", "answer a single query and exit")
	flag.Parse()

	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *seedFile != "" {
		if err := application.Seed(ctx, *seedFile); err != nil {
			logger.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if *query != "" {
		printAnswer(ctx, application, *query)
		return
	}

	// Interactive mode: one query per line until EOF.
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("query> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		printAnswer(ctx, application, line)
	}
}

func printAnswer(ctx context.Context, application *app.Application, query string) {
	result := application.Answer(ctx, query)
	fmt.Println(result.Answer)
	fmt.Printf("[source: %s]\n", result.Source)
}
