package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blogforge-backend/internal/seed"
	"blogforge-backend/internal/service"
)

var (
	flagSetupWithContent bool
	flagSetupPosts       int
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Prepare a fresh installation",
	Long:  "Seed default categories, create the generation author, and optionally generate starter content.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		count, err := seed.Categories(tk.categoryRepo)
		if err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
		fmt.Printf("Seeded %d categories\n", count)

		author, err := tk.ai.EnsureAuthor()
		if err != nil {
			return err
		}
		fmt.Printf("Generation author ready: %s\n", author.Username)

		if !flagSetupWithContent {
			return nil
		}

		posts := flagSetupPosts
		if posts < 1 {
			posts = 5
		}
		if posts > 50 {
			posts = 50
		}

		result, err := tk.ai.GenerateBatch(posts, "", "", true, true)
		if err != nil && !errors.Is(err, service.ErrDailyCapReached) {
			return err
		}
		if result != nil {
			fmt.Printf("Generated %d starter posts\n", result.Created)
		}

		return nil
	},
}

func init() {
	setupCmd.Flags().BoolVar(&flagSetupWithContent, "with-content", false, "generate starter posts after seeding")
	setupCmd.Flags().IntVar(&flagSetupPosts, "posts", 5, "number of starter posts to generate")
}
