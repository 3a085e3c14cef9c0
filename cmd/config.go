package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/config"
	"github.com/twiced-technology-gmbh/tada/internal/output"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"dir": {
			get: func(c *config.Config) any { return c.Dir() },
		},
		"todo_file": {
			get:      func(c *config.Config) any { return c.TodoFile },
			set:      func(c *config.Config, v string) error { c.TodoFile = v; return nil },
			writable: true,
		},
		"done_file": {
			get:      func(c *config.Config) any { return c.DoneFile },
			set:      func(c *config.Config, v string) error { c.DoneFile = v; return nil },
			writable: true,
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error {
				if v == "" {
					c.Defaults.Priority = ""
					return nil
				}
				p, err := task.NormalizePriority(v)
				if err != nil {
					return err
				}
				c.Defaults.Priority = p
				return nil
			},
			writable: true,
		},
		"defaults.add_creation_date": boolAccessor(
			func(c *config.Config) *bool { return &c.Defaults.AddCreationDate }, "defaults.add_creation_date"),
		"defaults.complete_priority": enumAccessor(
			func(c *config.Config) *string { return &c.Defaults.CompletePriority },
			"defaults.complete_priority", config.CompletePolicies),
		"preserve_line_numbers": boolAccessor(
			func(c *config.Config) *bool { return &c.PreserveLineNumbers }, "preserve_line_numbers"),
		"auto_archive": boolAccessor(
			func(c *config.Config) *bool { return &c.AutoArchive }, "auto_archive"),
		"sort":       enumAccessor(func(c *config.Config) *string { return &c.Sort }, "sort", config.SortKeys),
		"log.level":  enumAccessor(func(c *config.Config) *string { return &c.Log.Level }, "log.level", config.LogLevels),
		"log.format": enumAccessor(func(c *config.Config) *string { return &c.Log.Format }, "log.format", config.LogFormats),
		"tui.show_completed": boolAccessor(
			func(c *config.Config) *bool { return &c.TUI.ShowCompleted }, "tui.show_completed"),
	}
}

func boolAccessor(field func(*config.Config) *bool, key string) configAccessor {
	return configAccessor{
		get: func(c *config.Config) any { return *field(c) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be true or false", key, v)
			}
			*field(c) = b
			return nil
		},
		writable: true,
	}
}

func enumAccessor(field func(*config.Config) *string, key string, allowed []string) configAccessor {
	return configAccessor{
		get: func(c *config.Config) any { return *field(c) },
		set: func(c *config.Config, v string) error {
			if config.IndexOf(allowed, v) < 0 {
				return clierr.Newf(clierr.InvalidInput,
					"invalid %s %q; allowed: %s", key, v, strings.Join(allowed, ", "))
			}
			*field(c) = v
			return nil
		},
		writable: true,
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"dir",
		"todo_file",
		"done_file",
		"defaults.priority",
		"defaults.add_creation_date",
		"defaults.complete_priority",
		"preserve_line_numbers",
		"auto_archive",
		"sort",
		"log.level",
		"log.format",
		"tui.show_completed",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	// Table mode: key-value pairs.
	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-28s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	// --file would otherwise be saved as todo_file.
	if flagFile != "" {
		return clierr.New(clierr.InvalidInput, "config set cannot be combined with --file")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.InvalidInput, err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	logActivity(cfg, "config", 0, key+"="+value)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
