package graph

import "sort"

// families partitions persons into connected families using union-find
// with path halving and union by size over dense indices.
type families struct {
	index  map[string]int
	ids    []string
	parent []int
	size   []int
}

func newFamilies(ids []string) *families {
	f := &families{
		index:  make(map[string]int, len(ids)),
		ids:    ids,
		parent: make([]int, len(ids)),
		size:   make([]int, len(ids)),
	}
	for i, id := range ids {
		f.index[id] = i
		f.parent[i] = i
		f.size[i] = 1
	}
	return f
}

func (f *families) root(i int) int {
	for f.parent[i] != i {
		f.parent[i] = f.parent[f.parent[i]]
		i = f.parent[i]
	}
	return i
}

// join merges the families of a and b. Returns true if they were separate.
func (f *families) join(a, b string) bool {
	ia, okA := f.index[a]
	ib, okB := f.index[b]
	if !okA || !okB {
		return false
	}
	ra, rb := f.root(ia), f.root(ib)
	if ra == rb {
		return false
	}
	if f.size[ra] < f.size[rb] {
		ra, rb = rb, ra
	}
	f.parent[rb] = ra
	f.size[ra] += f.size[rb]
	return true
}

// groups returns every family as a sorted id list, largest family first,
// ties by first id.
func (f *families) groups() [][]string {
	byRoot := make(map[int][]string)
	for i, id := range f.ids {
		r := f.root(i)
		byRoot[r] = append(byRoot[r], id)
	}
	out := make([][]string, 0, len(byRoot))
	for _, members := range byRoot {
		sort.Strings(members)
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i][0] < out[j][0]
	})
	return out
}
