package cmd

import (
	"fmt"
	"log"
	"os"

	"MeldFM/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "meldfm_server",
	Short: "MeldFM merges video audio metadata into the music library.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting MeldFM server...")
		// server.Start handles its own config, logging and shutdown.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
