package graph

import (
	"fmt"
	"slices"
)

// Severity of a validation finding. Only errors make a result not OK.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ViolationKind classifies a validation finding.
type ViolationKind string

const (
	ViolationCycle           ViolationKind = "cycle"
	ViolationSelfSpouse      ViolationKind = "self_spouse"
	ViolationSameParents     ViolationKind = "same_father_and_mother"
	ViolationSpouseAsymmetry ViolationKind = "spouse_asymmetry"
	ViolationSexRole         ViolationKind = "sex_role_mismatch"
)

// Violation is one structural or consistency finding.
type Violation struct {
	Kind      ViolationKind `json:"kind"`
	Severity  Severity      `json:"severity"`
	PersonIDs []string      `json:"person_ids"`
	Message   string        `json:"message"`
	Err       error         `json:"-"`
}

// ValidatorConfig holds validation policy.
type ValidatorConfig struct {
	// CheckSexRoles flags a father recorded as female or a mother recorded
	// as male. Unspecified sex never triggers it.
	CheckSexRoles bool
}

// ValidationResult is advisory: callers decide whether to reject the graph
// or proceed with warnings attached.
type ValidationResult struct {
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations"`
}

// Errors returns the error-severity violations.
func (r *ValidationResult) Errors() []Violation { return r.filter(SeverityError) }

// Warnings returns the warning-severity violations.
func (r *ValidationResult) Warnings() []Violation { return r.filter(SeverityWarning) }

func (r *ValidationResult) filter(s Severity) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == s {
			out = append(out, v)
		}
	}
	return out
}

// Touching returns the violations naming at least one id in ids.
func (r *ValidationResult) Touching(ids map[string]bool) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		for _, id := range v.PersonIDs {
			if ids[id] {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

// Validate checks parent-edge acyclicity and record consistency.
func Validate(g *Graph, cfg ValidatorConfig) *ValidationResult {
	var vs []Violation

	for _, c := range g.Cycles() {
		vs = append(vs, Violation{
			Kind:      ViolationCycle,
			Severity:  SeverityError,
			PersonIDs: slices.Clone(c.Members()),
			Message:   c.Error(),
			Err:       c,
		})
	}

	for _, id := range g.ids {
		p := g.persons[id]

		if f := p.Father(); f != "" && f == p.Mother() {
			vs = append(vs, Violation{
				Kind:      ViolationSameParents,
				Severity:  SeverityError,
				PersonIDs: []string{id, f},
				Message:   fmt.Sprintf("%s lists %s as both father and mother", id, f),
			})
		}

		seen := map[string]bool{}
		for _, s := range p.SpouseIDs {
			if seen[s] {
				continue
			}
			seen[s] = true
			if s == id {
				vs = append(vs, Violation{
					Kind:      ViolationSelfSpouse,
					Severity:  SeverityError,
					PersonIDs: []string{id},
					Message:   fmt.Sprintf("%s is listed as their own spouse", id),
				})
				continue
			}
			if !slices.Contains(g.persons[s].SpouseIDs, id) {
				vs = append(vs, Violation{
					Kind:      ViolationSpouseAsymmetry,
					Severity:  SeverityWarning,
					PersonIDs: []string{id, s},
					Message:   fmt.Sprintf("%s lists %s as spouse but not the reverse", id, s),
				})
			}
		}

		if cfg.CheckSexRoles {
			if f := p.Father(); f != "" && g.persons[f].Sex == SexFemale {
				vs = append(vs, Violation{
					Kind:      ViolationSexRole,
					Severity:  SeverityWarning,
					PersonIDs: []string{id, f},
					Message:   fmt.Sprintf("father %s of %s is recorded as female", f, id),
				})
			}
			if m := p.Mother(); m != "" && g.persons[m].Sex == SexMale {
				vs = append(vs, Violation{
					Kind:      ViolationSexRole,
					Severity:  SeverityWarning,
					PersonIDs: []string{id, m},
					Message:   fmt.Sprintf("mother %s of %s is recorded as male", m, id),
				})
			}
		}
	}

	ok := true
	for _, v := range vs {
		if v.Severity == SeverityError {
			ok = false
			break
		}
	}
	return &ValidationResult{OK: ok, Violations: vs}
}

// Cycles returns every parent-edge cycle found by a depth-first walk from
// each person in id order. Computed once per graph.
func (g *Graph) Cycles() []*CycleError {
	g.cyclesOnce.Do(func() {
		g.cycles = g.findCycles()
	})
	return g.cycles
}

func (g *Graph) findCycles() []*CycleError {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(g.ids))

	type frame struct {
		node string
		ni   int
	}

	var cycles []*CycleError
	for _, start := range g.ids {
		if color[start] != white {
			continue
		}
		color[start] = grey
		stack := []frame{{start, 0}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			parents := g.parents[top.node]

			if top.ni >= len(parents) {
				color[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}

			p := parents[top.ni]
			top.ni++

			switch color[p] {
			case white:
				color[p] = grey
				stack = append(stack, frame{p, 0})
			case grey:
				// back edge: the cycle is the stack suffix starting at p
				var path []string
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i].node == p {
						for _, f := range stack[i:] {
							path = append(path, f.node)
						}
						break
					}
				}
				path = append(path, p)
				cycles = append(cycles, &CycleError{Path: path})
			}
		}
	}
	return cycles
}
