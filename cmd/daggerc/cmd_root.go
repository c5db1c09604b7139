package main

import (
	"github.com/spf13/cobra"

	"github.com/digitalbuddha/dagger/manifest"
)

var flagManifest string

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Resolve wiring manifests into construction plans",
	Long:          "Resolve wiring manifests into construction plans.\n\nA manifest declares contribution sites, requests, scopes, and type facts;\ncheck validates the binding graph, plan prints the synthesized accessors.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagManifest, "manifest", "m", "",
		"path to the wiring manifest (defaults to $DAGGERC_MANIFEST)")
	rootCmd.AddCommand(checkCmd, planCmd)
}

// loadManifest resolves the manifest path (flag first, then env
// config) and parses it.
func loadManifest() (*manifest.Manifest, error) {
	path := flagManifest
	if path == "" {
		path = cfg.Manifest
	}
	return manifest.Load(path)
}
