package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/pubex/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set values in the global config file
(~/.config/pubex/config.yml, or under $XDG_CONFIG_HOME).

Usage:
  pubex config                          # Show all config
  pubex config output-format            # Get specific value
  pubex config output-format xml        # Set value
  pubex config db-path ""               # Clear value

Keys:
  output-format  Default extract format (dict, jsonl, yaml, xml, bibtex, xlsx)
  output         Default extract destination (empty = stdout)
  db-path        SQLite search index location
  log-level      Diagnostic level (debug, info, warn, error)
  log-format     Diagnostic format (text, json)

Each key can be overridden by a PUBEX_<KEY> environment variable, e.g.
PUBEX_OUTPUT_FORMAT, also read from a .env file in the working directory.
This command shows and edits the file only.`,
	Args:        cobra.MaximumNArgs(2),
	Annotations: map[string]string{skipConfig: "true"},
	RunE:        runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			for _, key := range config.Keys {
				v, _ := cfg.Get(key)
				fmt.Printf("%-14s %s\n", displayKey(key)+":", v)
			}
			return nil
		}
		values := make(map[string]string, len(config.Keys))
		for _, key := range config.Keys {
			values[key], _ = cfg.Get(key)
		}
		return outputJSON(values)
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		v, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(v)
			return nil
		}
		return outputJSON(map[string]string{key: v})
	}

	// Two args: set value
	value := args[1]
	if key == config.KeyOutput || key == config.KeyDBPath {
		value = config.ExpandTilde(value)
	}

	if err := cfg.Set(key, value); err != nil {
		code := ExitError
		if errors.Is(err, config.ErrInvalidValue) {
			code = ExitConfigError
		}
		exitWithError(code, "%v", err)
	}

	if err := config.Save(cfg); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", displayKey(key), value)
		return nil
	}
	return outputJSON(UpdateResponse{
		Status: "updated",
		Key:    key,
		Value:  value,
	})
}

// normalizeKey converts key formats (output-format, OUTPUT_FORMAT) to the file's snake_case.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// displayKey is the dashed form used in help and human output.
func displayKey(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
