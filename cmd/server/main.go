// Package main is the entry point for the sm2bs API server
package main

import (
	"fmt"
	"os"

	"github.com/james-see/sm2bs/pkg/api"
	"github.com/spf13/cobra"
)

var port int

var rootCmd = &cobra.Command{
	Use:   "sm2bs-server",
	Short: "Serve the sm2bs conversion API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Starting sm2bs API server on port %d...\n", port)
		fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", port)
		return api.StartServer(port)
	},
}

func main() {
	rootCmd.Flags().IntVarP(&port, "port", "p", 8080, "Server port")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
