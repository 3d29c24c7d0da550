package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/emberline/pricewatch/internal/api"
	"github.com/emberline/pricewatch/internal/config"
)

// CollectionsCmd returns the `pricewatch collections` command group: plain
// text listing and deletion for scripting, without entering the TUI.
func CollectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Manage saved item collections",
	}
	cmd.AddCommand(collectionsListCmd())
	cmd.AddCommand(collectionsDeleteCmd())
	return cmd
}

func newClientFromConfig() (*api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("not logged in: %w", err)
	}
	// Scripted invocations should fail fast rather than hang on a dead server.
	return api.NewClient(cfg.BaseURL, cfg.CSRFToken, 10*time.Second), nil
}

func collectionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved collections",
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := newClientFromConfig()
			if err != nil {
				return err
			}
			cols, err := client.ListCollections()
			if err != nil {
				return fmt.Errorf("list collections: %w", err)
			}
			WriteCollections(os.Stdout, cols)
			return nil
		},
	}
}

// WriteCollections renders collections as one line each: id, name, items.
func WriteCollections(out io.Writer, cols []api.Collection) {
	if len(cols) == 0 {
		fmt.Fprintln(out, "no collections")
		return
	}
	for _, col := range cols {
		items := make([]string, len(col.Items()))
		for i, item := range col.Items() {
			items[i] = item.Name
		}
		fmt.Fprintf(out, "%d\t%s\t%s\n", col.ID, col.Name, strings.Join(items, ", "))
	}
}

func collectionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid collection id %q", args[0])
			}
			client, err := newClientFromConfig()
			if err != nil {
				return err
			}
			if err := client.DeleteCollection(id); err != nil {
				if api.IsNotFound(err) {
					fmt.Printf("collection %d not found (already deleted?)\n", id)
					return nil
				}
				return fmt.Errorf("delete collection: %w", err)
			}
			fmt.Printf("deleted collection %d\n", id)
			return nil
		},
	}
}
