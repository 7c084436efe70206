package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/config"
	"github.com/wempy/storefront/internal/menu"
	"github.com/wempy/storefront/internal/wempy"
)

func main() {
	filter := ""
	if len(os.Args) > 1 {
		filter = strings.TrimSpace(strings.Join(os.Args[1:], " "))
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := wempy.NewClient(cfg.API, logger)

	fmt.Printf("🔍 Loading menu from %s\n\n", client.BaseURL())

	m := menu.Load(context.Background(), client, client.BaseURL(), logger)
	if len(m.Sections) == 0 {
		fmt.Printf("❌ No categories returned by the API.\n")
		os.Exit(1)
	}

	shown := 0
	for _, section := range m.Sections {
		printedHeader := false
		for _, entry := range section.Entries {
			if filter != "" && !matches(entry, filter) {
				continue
			}
			if !printedHeader {
				fmt.Printf("== %s (%s)\n", section.Category.CategoryName, section.ID)
				printedHeader = true
			}
			printEntry(entry)
			shown++
		}
	}

	if shown == 0 {
		fmt.Printf("❌ No product matches %q.\n", filter)
		os.Exit(1)
	}
	fmt.Printf("\n✅ %d products\n", shown)
}

func matches(entry menu.Entry, filter string) bool {
	if strconv.Itoa(entry.Product.ProductID) == filter {
		return true
	}
	return strings.Contains(strings.ToLower(entry.Product.Name), strings.ToLower(filter))
}

func printEntry(entry menu.Entry) {
	fmt.Printf("  [%d] %s\n", entry.Product.ProductID, entry.Product.Name)
	if !entry.Options.Purchasable() {
		fmt.Printf("      (no variants, not purchasable)\n")
		return
	}
	if len(entry.Options.Options) == 0 {
		fmt.Printf("      price: %s\n", entry.DefaultPrice.StringFixed(2))
		return
	}
	for _, opt := range entry.Options.Options {
		fmt.Printf("      %s %-12s variant %-6d %s\n", entry.Options.Kind, opt.Label, opt.VariantID, opt.Price.StringFixed(2))
	}
}
