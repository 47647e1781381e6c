package config

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/docbind/docbind/constants/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeebo/xxh3"
)

// Config represents the structure of the configuration file.
type Config struct {
	Version string `mapstructure:"version"`

	// ProviderGlobs classify files as template sources. Patterns with a
	// slash match the whole relative path; patterns without one match the
	// base name.
	ProviderGlobs []string `mapstructure:"provider_globs"`

	// Include, when non-empty, restricts the scan to matching files.
	Include []string `mapstructure:"include"`
	// Exclude drops matching files and directories before extraction runs.
	Exclude []string `mapstructure:"exclude"`

	// DataSources maps a namespace to a JSON/TOML/YAML file whose decoded
	// document becomes available to `{{ namespace.key }}` placeholders.
	DataSources map[string]string `mapstructure:"data_sources"`

	EnableCache bool `mapstructure:"enable_cache"`
	Workers     int  `mapstructure:"workers"`
}

// DefaultConfig values.
var DefaultConfig = Config{
	Version:       "0.3.0",
	ProviderGlobs: []string{"docs/partials/*.md"},
	EnableCache:   true,
}

// cfgFile holds the path to the configuration file (set via CLI).
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and
// environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("docbind")
		viper.AddConfigPath(cwd)

		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				fmt.Println(lipgloss.Yellow.Render("No configuration file found, using defaults"))
			}
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("provider_globs", DefaultConfig.ProviderGlobs)
	viper.SetDefault("include", DefaultConfig.Include)
	viper.SetDefault("exclude", DefaultConfig.Exclude)
	viper.SetDefault("data_sources", DefaultConfig.DataSources)
	viper.SetDefault("enable_cache", DefaultConfig.EnableCache)
	viper.SetDefault("workers", DefaultConfig.Workers)
}

func bindEnv() {
	_ = viper.BindEnv("enable_cache", "DOCBIND_ENABLE_CACHE")
	_ = viper.BindEnv("workers", "DOCBIND_WORKERS")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("enable_cache", rootCmd.PersistentFlags().Lookup("enable_cache"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a configuration file (JSON or YAML).")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Enable or disable the project index cache.")
	rootCmd.PersistentFlags().Int("workers", DefaultConfig.Workers, "Number of parallel file parsers (0 = number of CPUs).")
}

// ProjectKey returns a stable hash of the effective configuration. A
// changed key invalidates the persisted index cache, since classification
// or data-source changes can alter parse results.
func (c *Config) ProjectKey() string {
	var b strings.Builder
	writeList := func(label string, items []string) {
		b.WriteString(label)
		for _, it := range items {
			b.WriteByte('\x1f')
			b.WriteString(it)
		}
		b.WriteByte('\n')
	}
	writeList("provider_globs", c.ProviderGlobs)
	writeList("include", c.Include)
	writeList("exclude", c.Exclude)

	names := make([]string, 0, len(c.DataSources))
	for ns := range c.DataSources {
		names = append(names, ns)
	}
	sort.Strings(names)
	for _, ns := range names {
		b.WriteString("data_source\x1f")
		b.WriteString(ns)
		b.WriteByte('\x1f')
		b.WriteString(c.DataSources[ns])
		b.WriteByte('\n')
	}
	return fmt.Sprintf("%016x", xxh3.HashString(b.String()))
}

// IsProviderFile reports whether the relative path is a template source.
func (c *Config) IsProviderFile(rel string) bool {
	return matchAny(c.ProviderGlobs, rel)
}

// IsExcluded applies the include/exclude globs. Include rules only narrow
// files, never directories, so the walk can still descend into them.
func (c *Config) IsExcluded(rel string, isDir bool) bool {
	if matchAny(c.Exclude, rel) {
		return true
	}
	if isDir || len(c.Include) == 0 {
		return false
	}
	return !matchAny(c.Include, rel) && !c.IsProviderFile(rel)
}

func matchAny(globs []string, rel string) bool {
	base := path.Base(rel)
	for _, g := range globs {
		var target string
		if strings.ContainsRune(g, '/') {
			target = rel
		} else {
			target = base
		}
		if ok, err := path.Match(g, target); err == nil && ok {
			return true
		}
		// Directory-style patterns like "vendor/" cover the whole subtree.
		if strings.HasSuffix(g, "/") && strings.HasPrefix(rel, g) {
			return true
		}
	}
	return false
}
