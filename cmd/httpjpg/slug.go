package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/httpjpg/httpjpg/slugs"
)

var slugFolder string

var slugCmd = &cobra.Command{
	Use:   "slug <path>...",
	Short: "Show how request paths map to story slugs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := slugs.New(slugFolder)
		out := cmd.OutOrStdout()
		for _, p := range args {
			slug := slugs.FromRequestPath(p)
			if r.IsExcludedFromRouting(slug) {
				fmt.Fprintf(out, "%s\texcluded\n", p)
				continue
			}
			full := r.WithFolderPrefix(slug)
			if full == "" {
				full = "home"
			}
			fmt.Fprintf(out, "%s\t%s\t%s\n", p, full, r.PublicPath(full))
		}
		return nil
	},
}

func init() {
	slugCmd.Flags().StringVar(&slugFolder, "folder", "", "main CMS folder")
}
