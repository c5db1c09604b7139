package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/digitalbuddha/dagger/codegen"
	"github.com/digitalbuddha/dagger/graph"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Synthesize and print the construction plan for every request",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest()
		if err != nil {
			return err
		}

		rb, diags := graph.Build(m.Declarations, m.Requests, m.Config, m.Oracle)
		if diags.HasErrors() {
			for _, d := range diags {
				fmt.Fprintln(cmd.OutOrStdout(), d.Error())
			}
			return fmt.Errorf("%d diagnostic(s)", len(diags))
		}

		synth := codegen.NewSynthesizer(rb, m.Oracle, m.Config)
		plan, err := synth.Plan(m.Requests)
		if err != nil {
			return err
		}

		for _, e := range plan.Entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s  %s\n          = %s : %s\n",
				e.Request.Kind, e.Request.Key, e.Expr, e.Expr.Type())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "fingerprint: %s\n", plan.Fingerprint)

		logger.Info("plan synthesized",
			zap.Int("requests", len(plan.Entries)),
			zap.String("fingerprint", plan.Fingerprint),
		)
		return nil
	},
}
