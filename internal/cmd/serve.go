package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/lantern/internal/engine"
	"github.com/crimson-sun/lantern/internal/fetch"
	"github.com/crimson-sun/lantern/internal/output/html"
	"github.com/crimson-sun/lantern/internal/server"
)

var serveAllowRemote bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve digests over HTTP",
	Long: `Run the digest server. GET /digest?src=<path> returns the HTML
fragment for a log under the configured root; pod, uid, namespace and cid
query parameters map to the matching filters. GET /healthz reports liveness.

Examples:
  lantern serve
  LANTERN_SERVER_ADDR=:9090 lantern serve --allow-remote`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveAllowRemote, "allow-remote", false, "allow http(s) src parameters")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	eng := engine.New(engine.Config{
		BufferLimit:   cfg.Digest.BufferLimit,
		Radius:        cfg.Digest.Radius,
		MaxHighlights: cfg.Digest.MaxHighlights,
		Strict:        cfg.Digest.Strict,
		Logger:        slog.Default(),
	})

	var fetcher *fetch.Client
	if serveAllowRemote {
		fetcher = fetch.New()
	}

	srv := server.New(eng, html.New(), fetcher, cfg.Server.Root, slog.Default())
	return srv.Run(cfg.Server.Addr)
}
