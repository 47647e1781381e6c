package cmd

import (
	"fmt"
	"os"

	"github.com/docbind/docbind/config"
	"github.com/docbind/docbind/constants/lipgloss"
	"github.com/docbind/docbind/datasource"
	"github.com/docbind/docbind/doc_sync"
	"github.com/docbind/docbind/render"
	"github.com/docbind/docbind/utils"
	"github.com/spf13/cobra"
)

// RootDependencies holds the resolved collaborators shared by all
// subcommands.
type RootDependencies struct {
	Cwd      string
	Config   *config.Config
	Analyzer *doc_sync.DocAnalyzer
	Engine   *doc_sync.Engine
}

var rootCmd = &cobra.Command{
	Use:   "docbind",
	Short: "Keep duplicated documentation blocks synchronized across a project.",
	Long: `docbind mechanically copies named provider blocks into their consumer
sites — in other markdown files or in comments embedded in source files —
optionally transformed and populated from project metadata files.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
	rootCmd.Version = config.DefaultConfig.Version
}

// handleRootCommand resolves the working directory, configuration, data
// context and the scan/match collaborators for a subcommand.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Failed to get current directory: %v", err)))
		os.Exit(1)
	}

	cfg := config.LoadConfigs(rootCmd, cwd)

	var renderFn doc_sync.RenderFunc
	ctx := map[string]any{}
	if len(cfg.DataSources) > 0 {
		loaded, err := datasource.Load(cwd, cfg.DataSources)
		if err != nil {
			// Blocks with placeholders will surface per-block render
			// diagnostics instead of aborting the whole run.
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: %v", err)))
		} else {
			ctx = loaded
		}
		renderFn = render.New().Render
	}

	ignorePatterns, err := utils.GetIgnorePatterns(cwd)
	if err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: %v", err)))
	}

	analyzer := doc_sync.NewDocAnalyzer(cwd, doc_sync.ScanOptions{
		IsProviderFile: cfg.IsProviderFile,
		IsExcluded: func(rel string, isDir bool) bool {
			return utils.IsDefaultIgnored(rel) ||
				utils.IsIgnored(rel, ignorePatterns) ||
				cfg.IsExcluded(rel, isDir)
		},
		ProjectKey:  cfg.ProjectKey(),
		EnableCache: cfg.EnableCache,
		Workers:     cfg.Workers,
	})

	return &RootDependencies{
		Cwd:      cwd,
		Config:   cfg,
		Analyzer: analyzer,
		Engine:   doc_sync.NewEngine(renderFn, ctx, nil),
	}
}
