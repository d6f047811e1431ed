package repair

import (
	"strconv"
	"strings"

	"github.com/cassandra-tools/range-repair/internal/pkg/options"
)

// Action decides what happens to one sub-range task.
type Action int

const (
	// Run the repair as planned.
	Run Action = iota
	// SkipStep drops the whole sub-range.
	SkipStep
	// SkipKeyspaceOnly repairs the sub-range keyspace by keyspace, leaving
	// out the excluded one. Only possible when the run covers all keyspaces.
	SkipKeyspaceOnly
)

// classify one sub-range against the offset and exclude-step settings.
// node and step are both 1-based.
func classify(offset options.Offset, exclude *options.ExcludeStep, keyspace string, step, node int) Action {
	if offset.Node != 0 && offset.Node == node && step < offset.Step {
		return SkipStep
	}

	if exclude != nil && exclude.Node == node && exclude.Step == step {
		if exclude.Keyspace != "" {
			if keyspace != "" && keyspace == exclude.Keyspace {
				return SkipStep
			}
			if keyspace == "" {
				// The run covers all keyspaces but only one is excluded.
				return SkipKeyspaceOnly
			}
			return Run
		}
		return SkipStep
	}
	return Run
}

// nodeIndex extracts the 1-based node number from an "i/total" position.
func nodeIndex(position string) int {
	value, _, _ := strings.Cut(position, "/")
	node, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return node
}

// orAll substitutes the "<all>" marker for an empty keyspace in log lines.
func orAll(keyspace string) string {
	if keyspace == "" {
		return "<all>"
	}
	return keyspace
}
