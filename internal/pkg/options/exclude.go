package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Offset is a starting position in the repair plan, both parts 1-based.
// Everything before node Node is skipped entirely, and on node Node every
// step below Step is skipped. The zero value means "start at the
// beginning".
type Offset struct {
	Node int
	Step int
}

// ParseOffset parses "node[,step]". The step defaults to 1.
func ParseOffset(spec string) (Offset, error) {
	if spec == "" {
		return Offset{}, nil
	}
	parts := strings.Split(spec, ",")
	if len(parts) > 2 {
		return Offset{}, fmt.Errorf(`invalid offset "%s", expected "node[,step]"`, spec)
	}
	node, err := cast.ToIntE(parts[0])
	if err != nil {
		return Offset{}, fmt.Errorf(`invalid offset node in "%s": %s`, spec, err)
	}
	step := 1
	if len(parts) == 2 {
		step, err = cast.ToIntE(parts[1])
		if err != nil {
			return Offset{}, fmt.Errorf(`invalid offset step in "%s": %s`, spec, err)
		}
	}
	return Offset{Node: node, Step: step}, nil
}

// ExcludeStep names one step of one node to skip. An optional keyspace
// qualifier restricts the skip, an optional column family qualifier turns
// the skip into "repair the keyspace without this column family".
type ExcludeStep struct {
	Keyspace     string
	ColumnFamily string
	Node         int
	Step         int
}

// ParseExcludeStep parses "[keyspace[,columnFamily,]]node,step".
func ParseExcludeStep(spec string) (*ExcludeStep, error) {
	if spec == "" {
		return nil, nil
	}
	parts := strings.Split(spec, ",")
	exclude := &ExcludeStep{}
	switch len(parts) {
	case 2:
		// node,step
	case 3:
		exclude.Keyspace = parts[0]
		parts = parts[1:]
	case 4:
		exclude.Keyspace = parts[0]
		exclude.ColumnFamily = parts[1]
		parts = parts[2:]
	default:
		return nil, fmt.Errorf(`invalid exclude-step "%s", expected "[keyspace[,columnFamily,]]node,step"`, spec)
	}

	node, err := cast.ToIntE(parts[0])
	if err != nil {
		return nil, fmt.Errorf(`invalid exclude-step node in "%s": %s`, spec, err)
	}
	step, err := cast.ToIntE(parts[1])
	if err != nil {
		return nil, fmt.Errorf(`invalid exclude-step step in "%s": %s`, spec, err)
	}
	exclude.Node = node
	exclude.Step = step
	return exclude, nil
}
