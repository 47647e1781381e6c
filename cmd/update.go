package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/docbind/docbind/constants/lipgloss"
	"github.com/docbind/docbind/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// updateCmd: docbind update
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rewrite stale consumer blocks in place.",
	Long: `The 'update' command performs the same matching as 'check' and then
replaces the content span of every stale consumer block with the provider's
rendered content, leaving the surrounding tags and everything else in the
file byte-identical. With --dry-run the identical computation runs but no
file is written.`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		yes, _ := cmd.Flags().GetBool("yes")
		deps := handleRootCommand(cmd)
		handleUpdateCommand(deps, dryRun, yes)
	},
}

func init() {
	updateCmd.Flags().Bool("dry-run", false, "Compute updates without writing any file")
	updateCmd.Flags().BoolP("yes", "y", false, "Write without asking for confirmation")
	rootCmd.AddCommand(updateCmd)
}

func handleUpdateCommand(deps *RootDependencies, dryRun, yes bool) {
	spinner := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithRemoveWhenDone(true)

	spinnerScan, _ := spinner.Start("Scanning project...")
	project, err := deps.Analyzer.Scan()
	spinnerScan.Stop()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	result := deps.Engine.ComputeUpdates(project)
	printDiags(project.Diagnostics)
	printDiags(result.Diagnostics)

	if result.UpdatedCount == 0 {
		fmt.Println(lipgloss.Green.Render("✓ Nothing to update"))
		return
	}

	if dryRun {
		fmt.Println(lipgloss.Info.Render(fmt.Sprintf("Would update %d block(s) in %d file(s)",
			result.UpdatedCount, len(result.Files))))
		files := make([]string, 0, len(result.Files))
		for file := range result.Files {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			fmt.Println(lipgloss.Gray.Render(fmt.Sprintf("  %s (%d span(s))", file, len(result.Files[file].Spans))))
		}
		return
	}

	if !yes {
		reader := bufio.NewReader(os.Stdin)
		ok, err := utils.ConfirmPrompt(reader, fmt.Sprintf("Update %d block(s) in %d file(s)?",
			result.UpdatedCount, len(result.Files)))
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
		if !ok {
			fmt.Println(lipgloss.Yellow.Render("Update cancelled."))
			return
		}
	}

	if err := deps.Engine.WriteUpdates(deps.Cwd, result); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✓ Updated %d block(s) in %d file(s)",
		result.UpdatedCount, len(result.Files))))
}
