package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"blogforge-backend/internal/service"
)

var (
	flagGenCategory  string
	flagGenTopic     string
	flagGenPublish   bool
	flagGenUnlimited bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [count]",
	Short: "Generate blog posts",
	Long:  "Generate up to 50 posts in one run using configured providers or the built-in template engine.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count := 1
		if len(args) == 1 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid count %q", args[0])
			}
			count = parsed
		}

		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		result, err := tk.ai.GenerateBatch(count, flagGenCategory, flagGenTopic, flagGenPublish, flagGenUnlimited)
		if err != nil && !errors.Is(err, service.ErrDailyCapReached) {
			return err
		}

		if result != nil {
			fmt.Printf("Requested: %d, created: %d, skipped: %d\n", result.Requested, result.Created, result.Skipped)
			for _, post := range result.Posts {
				status := "draft"
				if post.IsPublished {
					status = "published"
				}
				fmt.Printf("  [%s] %s (/blog/post/%s)\n", status, post.Title, post.Slug)
			}
			for _, msg := range result.Errors {
				fmt.Printf("  error: %s\n", msg)
			}
		}

		if errors.Is(err, service.ErrDailyCapReached) {
			fmt.Println("Daily generation cap reached, use --unlimited to override")
		}

		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&flagGenCategory, "category", "", "restrict generation to a category")
	generateCmd.Flags().StringVar(&flagGenTopic, "topic", "", "generate posts about a specific topic")
	generateCmd.Flags().BoolVar(&flagGenPublish, "publish", false, "publish generated posts immediately")
	generateCmd.Flags().BoolVar(&flagGenUnlimited, "unlimited", false, "ignore the daily generation cap")
}
