// cmd/immigria/catalog.go
package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"immigria-site/internal/content"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the services in the site catalog",
	Long: `List every service the site can render, with its detail path.

Examples:
  immigria catalog
  immigria catalog --format json`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().String("format", "table", "Output format (table|json)")
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	catalog, err := content.Default()
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog.Services)
	case "table":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tLISTED\tPATH")
		for _, s := range catalog.Services {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", s.ID, s.Title, s.Listed, s.Path())
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
