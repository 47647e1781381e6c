package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/docbind/docbind/constants/lipgloss"
	"github.com/docbind/docbind/doc_sync"
	"github.com/docbind/docbind/utils"
	"github.com/spf13/cobra"
)

// resetCacheCmd represents the reset-cache command
var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Remove the persisted project index cache.",
	Long: `The 'reset-cache' command removes the project index cache under the
'.docbind' directory. The next scan reparses every file from scratch. Use it
to clear a corrupted cache or when experiencing cache-related issues.`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		stats, _ := cmd.Flags().GetBool("stats")
		handleResetCacheCommand(force, stats)
	},
}

func init() {
	resetCacheCmd.Flags().BoolP("force", "f", false, "Reset the cache without confirmation")
	resetCacheCmd.Flags().BoolP("stats", "s", false, "Show cache statistics instead of resetting")
	rootCmd.AddCommand(resetCacheCmd)
}

func handleResetCacheCommand(force, showStats bool) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Failed to get current directory: %v", err)))
		os.Exit(1)
	}

	if showStats {
		info, err := os.Stat(doc_sync.CachePath(cwd))
		if os.IsNotExist(err) {
			fmt.Println(lipgloss.Yellow.Render("No cache present."))
			return
		}
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Could not read cache: %v", err)))
			os.Exit(1)
		}
		fmt.Println(lipgloss.Info.Render("Cache statistics:"))
		fmt.Printf("  Path: %s\n", doc_sync.CachePath(cwd))
		fmt.Printf("  Size: %.1f KB\n", float64(info.Size())/1024)
		fmt.Printf("  Last written: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))
		return
	}

	if !force {
		reader := bufio.NewReader(os.Stdin)
		ok, err := utils.ConfirmPrompt(reader, "Are you sure you want to reset the project index cache?")
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
		if !ok {
			fmt.Println(lipgloss.Yellow.Render("Cache reset cancelled."))
			return
		}
	}

	if err := doc_sync.ClearCache(cwd); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error resetting cache: %v", err)))
		os.Exit(1)
	}
	fmt.Println(lipgloss.Green.Render("✓ Project index cache has been reset"))
}
