package pathfinding

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Algorithm names a search strategy understood by the service.
type Algorithm string

const (
	Dijkstra Algorithm = "dijkstra"
	BFS      Algorithm = "bfs"
	DFS      Algorithm = "dfs"
)

// Algorithms lists the supported algorithms in selector order.
func Algorithms() []Algorithm { return []Algorithm{Dijkstra, BFS, DFS} }

// Next returns the algorithm after a in selector order, wrapping around.
func (a Algorithm) Next() Algorithm {
	all := Algorithms()
	for i, x := range all {
		if x == a {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func (a Algorithm) Label() string {
	switch a {
	case Dijkstra:
		return "Dijkstra"
	case BFS:
		return "BFS"
	case DFS:
		return "DFS"
	default:
		return string(a)
	}
}

// ParseAlgorithm accepts any case. Unknown names get a suggestion when one
// is close enough to be a typo.
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, a := range Algorithms() {
		if string(a) == name {
			return a, nil
		}
	}
	if guess, ok := closest(name); ok {
		return "", fmt.Errorf("unknown algorithm %q (did you mean %q?)", s, guess)
	}
	return "", fmt.Errorf("unknown algorithm %q (want one of dijkstra, bfs, dfs)", s)
}

func closest(name string) (Algorithm, bool) {
	if name == "" {
		return "", false
	}
	best, bestDist := Algorithm(""), -1
	for _, a := range Algorithms() {
		d := levenshtein.ComputeDistance(name, string(a))
		if bestDist < 0 || d < bestDist {
			best, bestDist = a, d
		}
	}
	// allow roughly one edit per three letters
	if bestDist > max(1, len(best)/3) {
		return "", false
	}
	return best, true
}
