package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"blogforge-backend/internal/aigen"
	"blogforge-backend/internal/config"
	"blogforge-backend/pkg/cache"
)

var flagTestShowContent bool

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Exercise the content generator without touching the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.New()

		generator := aigen.NewGenerator()
		post, err := generator.Generate("", "")
		if err != nil {
			return fmt.Errorf("template generation failed: %w", err)
		}

		fmt.Println("=== Template generation ===")
		fmt.Printf("Title:    %s\n", post.Title)
		fmt.Printf("Category: %s\n", post.Category)
		fmt.Printf("Topic:    %s\n", post.Topic)
		fmt.Printf("Tags:     %s\n", strings.Join(post.Tags, ", "))
		fmt.Printf("Quality:  %.2f, reading time: %d min\n", post.QualityScore, post.ReadingTime)
		if flagTestShowContent {
			fmt.Println("\n--- Content ---")
			fmt.Println(post.Content)
		}

		fmt.Println("\n=== Available topics ===")
		topics := generator.Topics()
		categories := make([]string, 0, len(topics))
		for category := range topics {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			fmt.Printf("%s: %s\n", category, strings.Join(topics[category], ", "))
		}

		noCache, err := cache.NewCache("", false)
		if err != nil {
			return err
		}
		manager := aigen.NewManager(cfg, noCache)
		if !manager.HasProviders() {
			fmt.Println("\nNo external providers configured")
			return nil
		}

		fmt.Println("\n=== Provider check ===")
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		for name, err := range manager.TestProviders(ctx) {
			if err != nil {
				fmt.Printf("%s: FAILED (%v)\n", name, err)
			} else {
				fmt.Printf("%s: ok\n", name)
			}
		}

		return nil
	},
}

func init() {
	testCmd.Flags().BoolVar(&flagTestShowContent, "show-content", false, "print the full generated article body")
}
