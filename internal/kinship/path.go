// Package kinship resolves the canonical relationship path between two
// persons and names it.
package kinship

import "strings"

// StepKind is the type of a single edge traversal.
type StepKind string

const (
	StepParent StepKind = "PARENT" // child -> parent
	StepChild  StepKind = "CHILD"  // parent -> child
	StepSpouse StepKind = "SPOUSE"
)

// Inverse swaps PARENT and CHILD. SPOUSE is its own inverse.
func (k StepKind) Inverse() StepKind {
	switch k {
	case StepParent:
		return StepChild
	case StepChild:
		return StepParent
	default:
		return k
	}
}

func (k StepKind) code() byte {
	switch k {
	case StepParent:
		return 'P'
	case StepChild:
		return 'C'
	default:
		return 'S'
	}
}

// Step moves to person To along an edge of the given kind.
type Step struct {
	Kind StepKind `json:"kind"`
	To   string   `json:"to"`
}

// RelationshipPath connects From to To. Label is sex-neutral; Term uses the
// target's recorded sex where the language has distinct forms.
type RelationshipPath struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Steps    []Step `json:"steps"`
	Label    string `json:"label"`
	Term     string `json:"term"`
	Distance int    `json:"distance"`
}

// Pattern is the step sequence as a string of P, C and S.
func (p *RelationshipPath) Pattern() string { return pattern(p.Steps) }

func pattern(steps []Step) string {
	var b strings.Builder
	for _, s := range steps {
		b.WriteByte(s.Kind.code())
	}
	return b.String()
}

// IsCanonical reports that no step is immediately undone by the next one.
func (p *RelationshipPath) IsCanonical() bool {
	prev := p.From
	for i := 0; i+1 < len(p.Steps); i++ {
		next := p.Steps[i+1]
		if next.Kind == p.Steps[i].Kind.Inverse() && next.To == prev {
			return false
		}
		prev = p.Steps[i].To
	}
	return true
}

// reverseSteps returns the path from the last step's target back to from,
// each step inverted.
func reverseSteps(from string, steps []Step) []Step {
	n := len(steps)
	out := make([]Step, n)
	for i := 0; i < n; i++ {
		src := steps[n-1-i]
		to := from
		if n-2-i >= 0 {
			to = steps[n-2-i].To
		}
		out[i] = Step{Kind: src.Kind.Inverse(), To: to}
	}
	return out
}
