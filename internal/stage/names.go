package stage

import (
	"fmt"
	"strings"
)

// Name identifies one pipeline step.
type Name string

const (
	Cluster Name = "cluster"
	Find    Name = "find"
	Match   Name = "match"
	Summary Name = "summary"
)

// Order lists the steps in execution order.
var Order = []Name{Cluster, Find, Match, Summary}

// Index returns the position of n in Order, or -1.
func (n Name) Index() int {
	for i, candidate := range Order {
		if candidate == n {
			return i
		}
	}
	return -1
}

// Previous returns the step whose output n consumes.
func (n Name) Previous() (Name, bool) {
	idx := n.Index()
	if idx <= 0 {
		return "", false
	}
	return Order[idx-1], true
}

// Select parses a step selector: "all", a single step such as "find", or a
// step followed by "+" for that step and every later one.
func Select(selector string) ([]Name, error) {
	selector = strings.ToLower(strings.TrimSpace(selector))
	if selector == "" || selector == "all" {
		return append([]Name(nil), Order...), nil
	}
	from := strings.TrimSuffix(selector, "+")
	idx := Name(from).Index()
	if idx < 0 {
		return nil, Wrap(ErrValidation, "", "parse steps",
			fmt.Sprintf("unknown step %q (want all, %s, or STEP+)", selector, joinNames(Order)), nil)
	}
	if strings.HasSuffix(selector, "+") {
		return append([]Name(nil), Order[idx:]...), nil
	}
	return []Name{Order[idx]}, nil
}

func joinNames(names []Name) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
