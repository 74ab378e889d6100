package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"portfolio_advisor/internal/analytics"
	"portfolio_advisor/internal/chat"
	"portfolio_advisor/internal/chat/gemini"
	"portfolio_advisor/internal/config"
	"portfolio_advisor/internal/logger"
	"portfolio_advisor/internal/market/alpaca"
	"portfolio_advisor/internal/models"
	"portfolio_advisor/internal/tools"
)

const logFile = "advisor.log"

// main wires the CLI chat loop: config → logger → market provider →
// analytics → tool registry → model → conversation.
func main() {
	cfg := config.Load()
	logger.Setup(logFile, cfg.MaxLogSizeMB, cfg.MaxLogBackups)

	ctx := context.Background()
	log.Printf("Portfolio advisor %s starting", cfg.Version)

	provider := alpaca.NewProvider()
	svc := analytics.New(provider)
	registry := tools.NewWithDefaults(svc, tools.Defaults{
		Window:    cfg.HistoryWindow,
		Benchmark: cfg.BenchmarkTicker,
	})

	model, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("CRITICAL: could not initialize model client: %v", err)
	}

	conv := chat.New(model, registry)

	reader := bufio.NewReader(os.Stdin)
	if portfolio := setupPortfolio(reader); len(portfolio) > 0 {
		conv.SeedPortfolio(portfolio)
		fmt.Println("Using portfolio:", portfolio)
	}

	fmt.Println("\nPortfolio advisor started. Type 'exit' to quit.")
	for {
		fmt.Print("You: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			return
		}
		msg := strings.TrimSpace(line)
		if msg == "" {
			continue
		}
		if msg == "exit" || msg == "quit" {
			fmt.Println("Goodbye!")
			return
		}

		reply, err := conv.HandleTurn(ctx, msg)
		if err != nil {
			log.Printf("turn failed: %v", err)
			fmt.Println("Bot: Sorry, I could not complete that. Please try again.")
			continue
		}
		fmt.Println("Bot:", reply)
	}
}

// setupPortfolio asks the user for starting holdings: manual entry, the
// example portfolio, or none.
func setupPortfolio(reader *bufio.Reader) models.Portfolio {
	fmt.Println("Would you like to set a portfolio?")
	fmt.Println("1. Enter manually")
	fmt.Println("2. Use example")
	fmt.Println("3. Skip")
	fmt.Print("Choose: ")

	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "1":
		return manualPortfolio(reader)
	case "2":
		p, _ := models.NewPortfolio(map[string]int64{"VOO": 10, "AAPL": 20, "QQQ": 10})
		return p
	default:
		fmt.Println("Skipping portfolio.")
		return nil
	}
}

func manualPortfolio(reader *bufio.Reader) models.Portfolio {
	fmt.Println("Enter holdings like: 10 AAPL (type 'done' to finish)")
	portfolio := make(models.Portfolio)
	for {
		fmt.Print("Add (or 'done'): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return portfolio
		}
		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "done") {
			return portfolio
		}
		parsed := models.ParsePortfolio(line)
		if parsed == nil {
			fmt.Println("Invalid format. Use: <shares> <ticker>")
			continue
		}
		for ticker, shares := range parsed {
			portfolio[ticker] = shares
		}
		fmt.Println("Added:", parsed)
	}
}
