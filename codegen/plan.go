package codegen

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/digitalbuddha/dagger/binding"
)

// PlanEntry pairs one request with its synthesized expression.
type PlanEntry struct {
	Request binding.Request
	Expr    Expr
}

// Plan is the full synthesis output for one compilation unit: every
// request's expression in request order, plus a fingerprint over the
// canonical rendering. Identical inputs always produce identical
// fingerprints; the printing collaborator can use it to skip
// regeneration.
type Plan struct {
	Entries     []PlanEntry
	Fingerprint string
}

// Plan synthesizes every request in order.
func (s *Synthesizer) Plan(requests []binding.Request) (Plan, error) {
	p := Plan{}
	var canonical strings.Builder
	for _, req := range requests {
		expr, err := s.Synthesize(req)
		if err != nil {
			return Plan{}, err
		}
		p.Entries = append(p.Entries, PlanEntry{Request: req, Expr: expr})

		canonical.WriteString(req.Kind.String())
		canonical.WriteByte(' ')
		canonical.WriteString(req.Key.String())
		canonical.WriteString(" = ")
		canonical.WriteString(expr.String())
		canonical.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(canonical.String()))
	p.Fingerprint = hex.EncodeToString(sum[:])
	return p, nil
}
