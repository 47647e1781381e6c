package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/docbind/docbind/constants/lipgloss"
	"github.com/docbind/docbind/doc_sync/models"
	"github.com/docbind/docbind/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// checkCmd: docbind check
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report consumer blocks whose content is out of date.",
	Long: `The 'check' command scans the project, matches every consumer block to
its provider and reports blocks whose in-place content no longer equals the
provider's freshly rendered content. Nothing is written.`,
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		deps := handleRootCommand(cmd)
		handleCheckCommand(deps, asJSON)
	},
}

func init() {
	checkCmd.Flags().Bool("json", false, "Print the check result as JSON")
	rootCmd.AddCommand(checkCmd)
}

func handleCheckCommand(deps *RootDependencies, asJSON bool) {
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

	result := deps.Engine.Check(project)

	if asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
		fmt.Println(string(out))
		if !result.IsOK {
			os.Exit(1)
		}
		return
	}

	printDiags(result.Diagnostics)

	if result.IsOK {
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✓ All consumer blocks are in sync (%d providers, %d consumers)",
			len(project.Providers), len(project.Consumers))))
		return
	}

	for _, sb := range result.Stale {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("stale: %s (%s:%d:%d)", sb.Name, sb.File, sb.Pos.Line, sb.Pos.Column)))
		if sb.Diff != "" {
			_ = utils.RenderAndPrintDiff(sb.Diff, "dracula")
		}
	}
	fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%d stale block(s); run 'docbind update' to fix", len(result.Stale))))
	os.Exit(1)
}

func printDiags(diags []models.ProjectDiagnostic) {
	for _, d := range diags {
		fmt.Println(lipgloss.Yellow.Render(d.String()))
	}
}
