package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print site statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		stats, err := tk.stats.GetSiteStats()
		if err != nil {
			return fmt.Errorf("failed to collect statistics: %w", err)
		}

		fmt.Println("=== Site statistics ===")
		fmt.Printf("Users:            %d (%d active)\n", stats.TotalUsers, stats.ActiveUsers)
		fmt.Printf("Posts:            %d (%d published, %d scheduled)\n", stats.TotalPosts, stats.PublishedPosts, stats.ScheduledPosts)
		fmt.Printf("Generated posts:  %d\n", stats.GeneratedPosts)
		fmt.Printf("Comments:         %d (%d pending)\n", stats.TotalComments, stats.PendingComments)
		fmt.Printf("Views:            %d (%d in last 24h)\n", stats.TotalViews, stats.ViewsLast24Hours)
		fmt.Printf("Categories:       %d\n", stats.TotalCategories)
		fmt.Printf("Tags:             %d\n", stats.TotalTags)
		fmt.Printf("Avg views/post:   %.1f\n", stats.AvgViewsPerPost)
		fmt.Printf("Avg words/post:   %.0f\n", stats.AvgWordsPerPost)
		fmt.Printf("Posts last 30d:   %d\n", stats.PostsLast30Days)

		topPosts, err := tk.stats.GetTopPosts(5)
		if err == nil && len(topPosts) > 0 {
			fmt.Println("\n=== Top posts by views ===")
			for i, post := range topPosts {
				fmt.Printf("%d. %s (%d views)\n", i+1, post.Title, post.ViewsCount)
			}
		}

		perDay, err := tk.stats.GetPostsPerDay(7)
		if err == nil && len(perDay) > 0 {
			fmt.Println("\n=== Posts per day (last 7 days) ===")
			days := make([]string, 0, len(perDay))
			for day := range perDay {
				days = append(days, day)
			}
			sort.Strings(days)
			for _, day := range days {
				fmt.Printf("%s: %d\n", day, perDay[day])
			}
		}

		return nil
	},
}
