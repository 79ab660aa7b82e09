package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error below matches exactly one of them
// through errors.Is.
var (
	ErrDanglingReference = errors.New("dangling reference")
	ErrCycle             = errors.New("parent cycle")
	ErrInconsistentGraph = errors.New("inconsistent graph")
	ErrNotFound          = errors.New("not found")
	ErrConfiguration     = errors.New("invalid configuration")
	ErrDuplicatePerson   = errors.New("duplicate person id")
	ErrInvalidPerson     = errors.New("invalid person")
)

// DanglingReferenceError reports a father, mother or spouse reference to a
// person absent from the input set.
type DanglingReferenceError struct {
	PersonID string
	Field    string // "father", "mother" or "spouse"
	Ref      string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("person %s: %s reference %q not found", e.PersonID, e.Field, e.Ref)
}

func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

// CycleError names a closed walk along parent edges. Path starts and ends
// with the same id, e.g. [X Y X] for X.father=Y, Y.father=X.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "parent cycle: " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Members returns the distinct ids on the cycle.
func (e *CycleError) Members() []string {
	if len(e.Path) <= 1 {
		return e.Path
	}
	return e.Path[:len(e.Path)-1]
}

// InconsistentGraphError is raised by traversals that refuse to run over a
// structurally invalid region of the graph.
type InconsistentGraphError struct {
	FocalID string
	Cycle   *CycleError
}

func (e *InconsistentGraphError) Error() string {
	if e.Cycle == nil {
		return fmt.Sprintf("inconsistent graph around %s", e.FocalID)
	}
	return fmt.Sprintf("inconsistent graph around %s: %v", e.FocalID, e.Cycle)
}

func (e *InconsistentGraphError) Unwrap() []error {
	if e.Cycle == nil {
		return []error{ErrInconsistentGraph}
	}
	return []error{ErrInconsistentGraph, e.Cycle}
}

// NotFoundError is returned for unknown person ids (ID set) or when no
// path connects two known persons (From and To set).
type NotFoundError struct {
	ID   string
	From string
	To   string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("person not found: %s", e.ID)
	}
	return fmt.Sprintf("no relationship path from %s to %s", e.From, e.To)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConfigurationError reports an invalid depth, threshold or weight.
type ConfigurationError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s=%v: %s", e.Param, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
