package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gdelafosse/seerrbridge/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "seerrbridge",
	Short: "Seerrbridge exposes a Jellyseerr/Overseerr catalog to host media-center UIs",
	Long: `Seerrbridge sits between a host media-center UI and a Jellyseerr or
Overseerr instance. It serves browsable catalog listings, search with
history, media requests with season selection, and local-library
resolution over a small HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Seerrbridge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Seerrbridge v0.1.0")
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP bridge",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yml)")
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	// Skip config loading for version command
	if len(os.Args) > 1 && os.Args[1] == "version" {
		return
	}

	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
