// Package orgchart lays out the group structure as a leveled chart: level 0
// holds the ultimate parents, each further level one direct hop down. The
// layout is cosmetic (it feeds report rendering) and never influences the
// ownership computation.
package orgchart

import (
	"sort"

	"github.com/holdgraph/holdgraph/internal/index"
	"github.com/holdgraph/holdgraph/internal/model"
)

// Build places every indexed entity in the chart. Level is the shortest hop
// distance from a root (an entity with no owners); order is the stable
// position within the level, sorted by priority class rank then name.
// Entities unreachable from any root (ownership cycles with no outside
// owner) are placed together one level below the deepest reachable node.
//
// The parent of a node is its highest-percentage direct owner, ties broken
// by name. Duplicate edges follow the same last-write-wins rule as the
// matrix builder.
func Build(mapping *index.Mapping, entities []model.Entity, edges []model.OwnershipEdge) []model.OrgChartNode {
	n := mapping.Len()
	if n == 0 {
		return nil
	}

	classOf := make(map[string]model.PriorityClass, len(entities))
	for _, e := range entities {
		classOf[e.Name] = e.PriorityClass
	}

	// Direct edges with duplicates collapsed, later edges winning.
	weight := make(map[string]map[string]float64)
	for _, e := range edges {
		if _, ok := mapping.Index(e.Owner); !ok {
			continue
		}
		if _, ok := mapping.Index(e.Owned); !ok {
			continue
		}
		if weight[e.Owner] == nil {
			weight[e.Owner] = make(map[string]float64)
		}
		weight[e.Owner][e.Owned] = e.Percentage
	}

	owners := make(map[string][]string)
	owned := make(map[string][]string)
	for owner, targets := range weight {
		for target := range targets {
			owners[target] = append(owners[target], owner)
			owned[owner] = append(owned[owner], target)
		}
	}
	for _, list := range owners {
		sort.Strings(list)
	}
	for _, list := range owned {
		sort.Strings(list)
	}

	levels := assignLevels(mapping, owners, owned)

	nodes := make([]model.OrgChartNode, 0, n)
	for _, name := range mapping.Names() {
		node := model.OrgChartNode{
			EntityName: name,
			Level:      levels[name],
			OwnerNames: owners[name],
			OwnedNames: owned[name],
		}
		if parent, pct, ok := controller(name, owners[name], weight); ok {
			node.ParentName = parent
			node.EdgePercentage = &pct
		}
		nodes = append(nodes, node)
	}

	// Stable order within each level: class rank, then name.
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Level != nodes[j].Level {
			return nodes[i].Level < nodes[j].Level
		}
		ri := classOf[nodes[i].EntityName].Rank()
		rj := classOf[nodes[j].EntityName].Rank()
		if ri != rj {
			return ri < rj
		}
		return nodes[i].EntityName < nodes[j].EntityName
	})

	order := make(map[int]int)
	for i := range nodes {
		nodes[i].Order = order[nodes[i].Level]
		order[nodes[i].Level]++
	}
	return nodes
}

// assignLevels runs a BFS from the ownerless roots down the ownership edges
func assignLevels(mapping *index.Mapping, owners, owned map[string][]string) map[string]int {
	levels := make(map[string]int, mapping.Len())

	var queue []string
	for _, name := range mapping.Names() {
		if len(owners[name]) == 0 {
			levels[name] = 0
			queue = append(queue, name)
		}
	}

	deepest := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range owned[current] {
			if _, visited := levels[child]; visited {
				continue
			}
			levels[child] = levels[current] + 1
			if levels[child] > deepest {
				deepest = levels[child]
			}
			queue = append(queue, child)
		}
	}

	// Rootless cycles: park below everything reachable.
	for _, name := range mapping.Names() {
		if _, visited := levels[name]; !visited {
			levels[name] = deepest + 1
		}
	}
	return levels
}

// controller picks the highest-percentage direct owner, ties by name
func controller(name string, ownerList []string, weight map[string]map[string]float64) (string, float64, bool) {
	best := ""
	bestPct := -1.0
	for _, owner := range ownerList {
		pct := weight[owner][name]
		if pct > bestPct {
			best = owner
			bestPct = pct
		}
	}
	if best == "" {
		return "", 0, false
	}
	return best, bestPct, true
}
