package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mailpilot application
var rootCmd = &cobra.Command{
	Use:   "mailpilot",
	Short: "Apple Mail automation for AI assistants",
	Long: `mailpilot exposes Apple Mail to AI assistants over the Model Context
Protocol (MCP). It drives the Mail application through AppleScript and
provides tools for reading, searching, organizing and composing email.

By default the server is read-only; write operations require --yolo.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailpilot version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
