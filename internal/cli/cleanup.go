package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var flagCleanupForce bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup {posts|users|all}",
	Short: "Remove generated content",
	Long:  "Remove generated posts, the generation author account, or both.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		switch target {
		case "posts", "users", "all":
		default:
			return fmt.Errorf("unknown cleanup target %q, expected posts, users, or all", target)
		}

		if !flagCleanupForce && !confirm(fmt.Sprintf("This will permanently delete generated %s. Continue?", target)) {
			fmt.Println("Aborted")
			return nil
		}

		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		if target == "posts" || target == "all" {
			deleted, err := tk.ai.CleanupPosts()
			if err != nil {
				return fmt.Errorf("failed to delete generated posts: %w", err)
			}
			fmt.Printf("Deleted %d generated posts\n", deleted)
		}

		if target == "users" || target == "all" {
			if err := tk.ai.CleanupAuthor(); err != nil {
				return fmt.Errorf("failed to delete generation author: %w", err)
			}
			fmt.Println("Deleted generation author account")
		}

		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	cleanupCmd.Flags().BoolVar(&flagCleanupForce, "force", false, "skip the confirmation prompt")
}
