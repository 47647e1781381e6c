package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/docbind/docbind/constants/lipgloss"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// scanCmd: docbind scan
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Print the provider/consumer inventory of the project.",
	Run: func(cmd *cobra.Command, args []string) {
		deps := handleRootCommand(cmd)
		handleScanCommand(deps)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func handleScanCommand(deps *RootDependencies) {
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

	printDiags(project.Diagnostics)

	names := make([]string, 0, len(project.Providers))
	for name := range project.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println(lipgloss.Info.Render(fmt.Sprintf("Providers (%d):", len(names))))
	for _, name := range names {
		p := project.Providers[name]
		fmt.Printf("  {@%s}  %s:%d\n", name, p.SourceFile, p.Pos.Line)
	}

	fmt.Println(lipgloss.Info.Render(fmt.Sprintf("Consumers (%d):", len(project.Consumers))))
	for _, c := range project.Consumers {
		fmt.Printf("  {=%s}  %s:%d\n", c.Name, c.File, c.Pos.Line)
	}

	t := deps.Analyzer.Telemetry()
	summary := fmt.Sprintf("%d providers, %d consumers, %d diagnostic(s)\ncache: %d reused, %d reparsed",
		len(project.Providers), len(project.Consumers), len(project.Diagnostics),
		t.ReusedFiles, t.ReparsedFiles)
	fmt.Println(lipgloss.BoxStyle.Render(summary))
}
