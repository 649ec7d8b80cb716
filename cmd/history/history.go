// Package history handles the price history commands
package history

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/tbs-price-summary/cmd/root"
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listFormat string

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or edit the pre-LTO price history",
	Long: `Inspect or edit the pre-LTO price history.

The history remembers the regular price of every product that started an LTO, so
the run that ends the LTO can tell a plain End LTO from an End LTO & Permanent Change.
It is enabled by setting history.file in the configuration.

Example:
  tbs-price-summary history list --format yaml`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored pre-LTO price levels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := historyStore()
		if err != nil {
			return err
		}
		return writeLevels(cmd.OutOrStdout(), history.List(), listFormat)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove KEY...",
	Short: "Remove stored levels by article number or history key",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := historyStore()
		if err != nil {
			return err
		}
		for _, key := range args {
			if !history.Remove(key) {
				return fmt.Errorf("no price history entry for %q", key)
			}
			root.Log.Info("Removed price history entry", logging.Field{Key: "key", Value: key})
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored level",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := historyStore()
		if err != nil {
			return err
		}
		count := len(history.List())
		history.Clear()
		root.Log.Info("Cleared price history", logging.Field{Key: logging.FieldCount, Value: count})
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format: table or yaml")
	Cmd.AddCommand(listCmd, removeCmd, clearCmd)
}

// historyStore returns the configured store. Changes are saved by the root command.
func historyStore() (*store.PriceHistoryStore, error) {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	history := appContainer.GetHistory()
	if history == nil {
		return nil, fmt.Errorf("price history is not configured: set history.file")
	}
	return history, nil
}

func writeLevels(w io.Writer, levels []store.PriceLevel, format string) error {
	switch format {
	case "yaml":
		byKey := make(map[string]store.PriceLevel, len(levels))
		for _, l := range levels {
			byKey[l.Key] = l
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(byKey); err != nil {
			return fmt.Errorf("failed to encode price history: %w", err)
		}
		return enc.Close()
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tMANUFACTURER\tPRODUCT\tPACK\tPRE-LTO\tLTO\tSINCE")
		for _, l := range levels {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				l.Key, l.Manufacturer, l.Product, l.PackSize, l.PreLTOPrice, l.LTOPrice, l.Since)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q: use table or yaml", format)
	}
}
