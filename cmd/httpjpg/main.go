package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "httpjpg",
	Short: "httpjpg - a Storyblok portfolio served with Go, Echo, and templ",
	Long: `httpjpg serves a portfolio whose pages live in a Storyblok space.

Examples:
  httpjpg serve --config httpjpg.yaml
  httpjpg image https://a.storyblok.com/f/1/2000x1000/x.jpg --ratio 16:9 --width 800
  httpjpg slug --folder portfolio /about/`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the httpjpg version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "httpjpg %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, imageCmd, slugCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
