package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/digitalbuddha/dagger/graph"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Build the binding graph and report every diagnostic",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest()
		if err != nil {
			return err
		}

		rb, diags := graph.Build(m.Declarations, m.Requests, m.Config, m.Oracle)
		if diags.HasErrors() {
			for _, d := range diags {
				logger.Error("diagnostic",
					zap.String("key", d.Subject().String()),
					zap.String("message", d.Error()),
				)
				fmt.Fprintln(cmd.OutOrStdout(), d.Error())
			}
			return fmt.Errorf("%d diagnostic(s)", len(diags))
		}

		logger.Info("graph resolved",
			zap.Int("bindings", rb.Len()),
			zap.Int("requests", len(m.Requests)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d binding(s)\n", rb.Len())
		return nil
	},
}
