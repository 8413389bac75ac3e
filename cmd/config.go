package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/crocstat-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set crocstat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dataset_path: %s\n", c.DatasetPath)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		if c.Decimal != "" {
			fmt.Fprintf(out, "decimal: %q\n", c.Decimal)
		}
		if c.Sheet != "" {
			fmt.Fprintf(out, "sheet: %s\n", c.Sheet)
		}
		fmt.Fprintf(out, "top_species: %d\n", c.TopSpecies)
		fmt.Fprintf(out, "top_regions: %d\n", c.TopRegions)
		fmt.Fprintf(out, "top_specimens: %d\n", c.TopSpecimens)
		fmt.Fprintf(out, "pause: %t\n", c.Pause)
		fmt.Fprintf(out, "color: %t\n", c.Color)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// persist only file/env values, not one-off flag overrides
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		switch key {
		case "dataset_path":
			cfg.DatasetPath = val
		case "delimiter":
			cfg.Delimiter = val
		case "decimal":
			cfg.Decimal = val
		case "sheet":
			cfg.Sheet = val
		case "top_species", "top_regions", "top_specimens":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "top_species":
				cfg.TopSpecies = i
			case "top_regions":
				cfg.TopRegions = i
			default:
				cfg.TopSpecimens = i
			}
		case "pause", "color":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %w", key, err)
			}
			if key == "pause" {
				cfg.Pause = b
			} else {
				cfg.Color = b
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		// validate separators before persisting
		if _, err := loadOptions(cfg); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
