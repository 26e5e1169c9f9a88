package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the labelmend application
var rootCmd = &cobra.Command{
	Use:   "labelmend",
	Short: "Propagates Gmail labels to every message in a labeled thread",
	Long: `labelmend restores label inheritance in Gmail conversations.

Gmail applies labels per message but displays them per thread, so a new
reply in a labeled thread carries none of the thread's labels and is
invisible to label searches and IMAP folders. labelmend finds such
messages and adds the missing labels. It only ever adds labels; nothing
is removed.`,
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
	rootCmd.SetVersionTemplate(`{{printf "labelmend version %s\n" .Version}}`)

	// If no subcommand is provided, run the relabel command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "relabel")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRelabelCmd())
	rootCmd.AddCommand(newVersionCmd())
}
