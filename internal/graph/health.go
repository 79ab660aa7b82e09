package graph

import "math"

// HealthBreakdown shows the sub-scores of the health formula
type HealthBreakdown struct {
	Connectivity float64 `json:"connectivity"`
	Cohesion     float64 `json:"cohesion"`
	Consistency  float64 `json:"consistency"`
}

// AnalysisReport is the full analysis result
type AnalysisReport struct {
	HealthScore     float64           `json:"health_score"`
	HealthBreakdown HealthBreakdown   `json:"health_breakdown"`
	Topology        *TopologyReport   `json:"topology"`
	Validation      *ValidationResult `json:"validation"`
}

// AnalyzerConfig holds analysis parameters
type AnalyzerConfig struct {
	ProlificThreshold int
	TopN              int
	Validation        ValidatorConfig
}

// DefaultAnalyzerConfig returns sensible defaults
func DefaultAnalyzerConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		ProlificThreshold: 6,
		TopN:              10,
		Validation:        ValidatorConfig{CheckSexRoles: true},
	}
}

// Analyze runs topology and validation and folds them into a health score.
func Analyze(g *Graph, config *AnalyzerConfig) *AnalysisReport {
	if config == nil {
		config = DefaultAnalyzerConfig()
	}
	topology := ComputeTopology(g, config.ProlificThreshold, config.TopN)
	validation := Validate(g, config.Validation)

	total := float64(topology.TotalPersons)

	var connectivity, cohesion, consistency float64
	if total > 0 {
		connectivity = clamp(1.0-math.Min(float64(topology.IsolatedCount)/total, 0.2)*5.0, 0, 1)
		cohesion = clamp(1.0/float64(topology.NumFamilies), 0, 1)

		errs := float64(len(validation.Errors()))
		warns := float64(len(validation.Warnings()))
		consistency = clamp(1.0-math.Min((errs*4+warns)/total, 1.0), 0, 1)
	}

	return &AnalysisReport{
		HealthScore: 0.35*connectivity + 0.25*cohesion + 0.40*consistency,
		HealthBreakdown: HealthBreakdown{
			Connectivity: connectivity,
			Cohesion:     cohesion,
			Consistency:  consistency,
		},
		Topology:   topology,
		Validation: validation,
	}
}

func clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
