package main

import (
	"github.com/maxaizer/jobboard/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the list and detail views as JSON over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	router := server.NewRouter(newJobsClient(), server.Options{
		ShareBaseURL:     cfg.Server.PublicURL,
		ApplyURLTemplate: cfg.API.ApplyURLTemplate,
	})
	return server.Serve(cmd.Context(), cfg.Server.Addr, router)
}
