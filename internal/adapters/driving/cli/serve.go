package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API used by the directory website.

Endpoints:
  POST /chat                 chat with the assistant
  POST /chat/clear           forget a session
  GET  /platforms/search     search the directory
  GET  /platforms/{slug}     one platform
  GET  /categories           category counts
  POST /analytics/pageview   record a page view
  GET  /analytics/summary    chat analytics
  GET  /analytics/pageviews  page-view analytics
  GET  /healthz              liveness and strategy
  GET  /metrics              Prometheus metrics`,
	Annotations: needs(needsServices),
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	if searchService == nil {
		return errors.New("search service not configured")
	}

	settings := serverSettings
	if serveAddr != "" {
		settings.Addr = serveAddr
	}

	ports := &httpapi.Ports{
		Search:    searchService,
		Chat:      chatService,
		Analytics: analyticsService,
		Metrics:   metrics,
	}

	server, err := httpapi.NewServer(ports, settings)
	if err != nil {
		return err
	}
	defer server.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s (%s)\n", settings.Addr, strategyLabel(chatService.Strategy()))
	return server.Run(cmd.Context())
}
