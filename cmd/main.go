package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ishitag04/price-comparison-app/internal/types"
	"github.com/Ishitag04/price-comparison-app/search"
)

func main() {
	// Configuration comes from .env and the environment; flags override it
	config := types.LoadConfig()

	var (
		productFlag   = flag.String("product", "", "Product to search for")
		sortFlag      = flag.String("sort", string(search.DefaultSort), "Sort mode (price_low, price_high, rating_high, best_deal)")
		minRatingFlag = flag.String("min-rating", "0", "Minimum rating; empty disables the threshold")
		outputFlag    = flag.String("output", "", "Output file path (default: stdout)")
		timeout       = flag.Duration("timeout", config.Timeout, "Per-request timeout for the search API")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if *productFlag == "" && flag.NArg() > 0 {
		*productFlag = flag.Arg(0)
	}
	if *productFlag == "" {
		log.Fatal("--product flag is required")
	}
	if config.APIKey == "" {
		log.Fatal("API_KEY is not set")
	}
	config.Timeout = *timeout

	// Setup logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	orchestrator := search.NewOrchestrator(config, logger)
	defer orchestrator.Close()

	// both upstream calls run in parallel, so one timeout plus slack bounds the run
	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	startTime := time.Now()
	result, err := orchestrator.Search(ctx, types.SearchRequest{
		Product:   *productFlag,
		SortBy:    search.ParseSortMode(*sortFlag),
		MinRating: *minRatingFlag,
	})
	if err != nil {
		logger.Fatalf("Search failed: %v", err)
	}
	logger.Infof("Search completed in %v", time.Since(startTime))

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatalf("Failed to marshal results: %v", err)
	}

	if *outputFlag != "" {
		if err := os.WriteFile(*outputFlag, jsonData, 0644); err != nil {
			logger.Fatalf("Failed to write output file: %v", err)
		}
		logger.Infof("Results written to: %s", *outputFlag)
	} else {
		fmt.Println(string(jsonData))
	}

	logger.Infof("Amazon listings: %d", len(result.Amazon))
	logger.Infof("Walmart listings: %d", len(result.Walmart))
	if result.BestDeal != nil {
		logger.Infof("Best deal: %s (%s, ₹%s)", result.BestDeal.Product.Title,
			result.BestDeal.Product.Source, result.BestDeal.Product.PriceDisplay)
	}
	if result.Error != "" {
		logger.Warn(result.Error)
	}
}
