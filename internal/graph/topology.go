package graph

import "sort"

// ProlificParent is a person with many recorded children
type ProlificParent struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Children    int    `json:"children"`
	Spouses     int    `json:"spouses"`
}

// ChildBucket is one bucket in the children-count histogram
type ChildBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopologyReport summarizes the shape of the family graph
type TopologyReport struct {
	TotalPersons    int              `json:"total_persons"`
	ParentLinks     int              `json:"parent_links"`
	SpouseLinks     int              `json:"spouse_links"`
	NumFamilies     int              `json:"num_families"`
	LargestFamily   int              `json:"largest_family"`
	SmallestFamily  int              `json:"smallest_family"`
	IsolatedCount   int              `json:"isolated_count"`
	IsolatedIDs     []string         `json:"isolated_ids"`
	Founders        int              `json:"founders"`
	MaxGenerations  int              `json:"max_generations"`
	ChildHistogram  []ChildBucket    `json:"child_histogram"`
	ProlificParents []ProlificParent `json:"prolific_parents"`
}

// ComputeTopology counts families, isolated persons, generation depth and
// prolific parents (more than prolificThreshold children).
func ComputeTopology(g *Graph, prolificThreshold, topN int) *TopologyReport {
	if g.Len() == 0 {
		return &TopologyReport{ChildHistogram: defaultChildHistogram()}
	}

	fam := newFamilies(g.ids)
	parentLinks, spouseLinks := 0, 0
	for _, id := range g.ids {
		for _, p := range g.parents[id] {
			parentLinks++
			fam.join(id, p)
		}
		for _, s := range g.spouses[id] {
			if id < s {
				spouseLinks++
			}
			fam.join(id, s)
		}
	}

	groups := fam.groups()
	largest, smallest := len(groups[0]), len(groups[len(groups)-1])

	var isolated []string
	founders := 0
	for _, id := range g.ids {
		if len(g.parents[id]) == 0 {
			founders++
		}
		if len(g.parents[id]) == 0 && len(g.children[id]) == 0 && len(g.spouses[id]) == 0 {
			isolated = append(isolated, id)
		}
	}
	isolatedCount := len(isolated)
	if len(isolated) > topN {
		isolated = isolated[:topN]
	}

	histogram := defaultChildHistogram()
	for _, id := range g.ids {
		histogram[childBucket(len(g.children[id]))].Count++
	}

	var prolific []ProlificParent
	for _, id := range g.ids {
		if n := len(g.children[id]); n > prolificThreshold {
			prolific = append(prolific, ProlificParent{
				ID:          id,
				DisplayName: g.persons[id].DisplayName,
				Children:    n,
				Spouses:     len(g.spouses[id]),
			})
		}
	}
	sort.SliceStable(prolific, func(i, j int) bool { return prolific[i].Children > prolific[j].Children })
	if len(prolific) > topN {
		prolific = prolific[:topN]
	}

	return &TopologyReport{
		TotalPersons:    g.Len(),
		ParentLinks:     parentLinks,
		SpouseLinks:     spouseLinks,
		NumFamilies:     len(groups),
		LargestFamily:   largest,
		SmallestFamily:  smallest,
		IsolatedCount:   isolatedCount,
		IsolatedIDs:     isolated,
		Founders:        founders,
		MaxGenerations:  g.maxGenerations(),
		ChildHistogram:  histogram,
		ProlificParents: prolific,
	}
}

// maxGenerations is the length in persons of the longest recorded parent
// chain. Back edges of a cycle contribute nothing.
func (g *Graph) maxGenerations() int {
	depth := make(map[string]int, len(g.ids))
	active := make(map[string]bool)

	var visit func(id string) int
	visit = func(id string) int {
		if d, ok := depth[id]; ok {
			return d
		}
		if active[id] {
			return 0
		}
		active[id] = true
		best := 0
		for _, p := range g.parents[id] {
			if d := visit(p); d > best {
				best = d
			}
		}
		active[id] = false
		depth[id] = best + 1
		return best + 1
	}

	deepest := 0
	for _, id := range g.ids {
		if d := visit(id); d > deepest {
			deepest = d
		}
	}
	return deepest
}

func defaultChildHistogram() []ChildBucket {
	return []ChildBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"}, {Label: "4-7"}, {Label: "8+"},
	}
}

func childBucket(n int) int {
	switch {
	case n == 0:
		return 0
	case n == 1:
		return 1
	case n <= 3:
		return 2
	case n <= 7:
		return 3
	default:
		return 4
	}
}
