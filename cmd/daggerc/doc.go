// Command daggerc drives the wiring engine from the command line.
//
// It loads a YAML wiring manifest (see package manifest), builds the
// binding graph, and either reports diagnostics (check) or prints the
// synthesized construction plan (plan).
//
//	daggerc check -m wiring.yaml
//	daggerc plan  -m wiring.yaml
//
// Configuration comes from the environment (optionally via .env):
//
//	DAGGERC_MANIFEST  default manifest path (flag -m overrides)
//	DAGGERC_DEBUG     verbose logging
package main
