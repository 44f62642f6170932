package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/lantern/internal/engine"
	"github.com/crimson-sun/lantern/internal/engine/objref"
	"github.com/crimson-sun/lantern/internal/fetch"
	"github.com/crimson-sun/lantern/internal/model"
	"github.com/crimson-sun/lantern/internal/output"
	"github.com/crimson-sun/lantern/internal/output/ansi"
	"github.com/crimson-sun/lantern/internal/output/html"
)

var (
	digestFormat string
	digestPod    string
	digestUID    string
	digestNS     string
	digestCID    string
)

var digestCmd = &cobra.Command{
	Use:   "digest <file|url>",
	Short: "Digest a build log to stdout",
	Long: `Read one build log and print its digest. With no filters the default
error patterns drive highlighting; --pod switches to pod-centric mode, and
adding --uid, --namespace or --cid resolves those values from the log's
ObjectReference dump and highlights them too.

Examples:
  lantern digest build.log
  lantern digest https://ci.example.com/logs/1234/build.log
  lantern digest build.log --format html > digest.html
  lantern digest kubelet.log --pod my-pod --uid --namespace`,
	Args: cobra.ExactArgs(1),
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().StringVarP(&digestFormat, "format", "f", "ansi", "output format: ansi, html")
	digestCmd.Flags().StringVar(&digestPod, "pod", "", "pod name to track")
	digestCmd.Flags().StringVar(&digestUID, "uid", "", "pod UID, or empty with the flag set to resolve from the log")
	digestCmd.Flags().StringVar(&digestNS, "namespace", "", "namespace, or empty with the flag set to resolve from the log")
	digestCmd.Flags().StringVar(&digestCID, "cid", "", "container ID, or empty with the flag set to resolve from the log")
	digestCmd.Flags().Lookup("uid").NoOptDefVal = "resolve"
	digestCmd.Flags().Lookup("namespace").NoOptDefVal = "resolve"
	digestCmd.Flags().Lookup("cid").NoOptDefVal = "resolve"
	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	data, err := readLog(cmd, args[0])
	if err != nil {
		return fmt.Errorf("reading log: %w", err)
	}

	eng := engine.New(engine.Config{
		BufferLimit:   cfg.Digest.BufferLimit,
		Radius:        cfg.Digest.Radius,
		MaxHighlights: cfg.Digest.MaxHighlights,
		Strict:        cfg.Digest.Strict,
		Logger:        slog.Default(),
	})

	req := engine.Request{Filters: model.FilterSet{
		Pod:         digestPod,
		UID:         digestUID,
		Namespace:   digestNS,
		ContainerID: digestCID,
	}}
	// Explicit flag values seed the object-reference record; the bare-flag
	// sentinel leaves resolution to the log itself.
	seed := objref.Record{}
	for key, val := range map[string]string{
		"UID":         digestUID,
		"Namespace":   digestNS,
		"ContainerID": digestCID,
	} {
		if val != "" && val != "resolve" {
			seed[key] = val
		}
	}
	if len(seed) > 0 {
		req.Seed = seed
	}

	digest, err := eng.Digest(data, req)
	if err != nil {
		return err
	}

	var renderer output.Renderer
	switch strings.ToLower(digestFormat) {
	case "html":
		renderer = html.New()
	case "ansi", "text":
		renderer = ansi.New()
	default:
		return fmt.Errorf("unknown format %q", digestFormat)
	}

	body, err := renderer.Render(digest)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), body)
	return nil
}

func readLog(cmd *cobra.Command, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return fetch.New().Get(cmd.Context(), src)
	}
	return os.ReadFile(src)
}
