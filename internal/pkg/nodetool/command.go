package nodetool

import (
	"strconv"
	"strings"
)

// Tool describes how to invoke nodetool against the target node.
type Tool struct {
	Path     string
	Host     string
	Port     int
	Username string
	Password string
}

// Command is an ordered list of argument tokens forming one nodetool
// invocation.
type Command struct {
	args []string
}

// Args returns the argument tokens in invocation order.
func (c Command) Args() []string {
	return c.args
}

// String returns the exact shell command line. Resumed repairs re-run this
// string verbatim, so it must be stable.
func (c Command) String() string {
	return strings.Join(c.args, " ")
}

// Command builds a nodetool invocation with the shared connection flags.
func (t Tool) Command(args ...string) Command {
	cmd := []string{t.Path, "--ssl", "-h", t.Host, "-p", strconv.Itoa(t.Port)}
	if t.Username != "" && t.Password != "" {
		cmd = append(cmd, "-u", t.Username, "-pw", t.Password)
	}
	return Command{args: append(cmd, args...)}
}

// Repair builds the repair invocation for one sub-range.
func (t Tool) Repair(keyspace string, columnFamilies []string, local, incremental, snapshot bool, start, end string) Command {
	cmd := t.Command("repair")
	if keyspace != "" {
		cmd.args = append(cmd.args, keyspace)
	}
	cmd.args = append(cmd.args, columnFamilies...)

	// The -local flag cannot be used in conjunction with -pr.
	if local {
		cmd.args = append(cmd.args, "-local")
	} else {
		cmd.args = append(cmd.args, "-pr")
	}
	if !incremental {
		cmd.args = append(cmd.args, "-full")
	}
	if snapshot {
		cmd.args = append(cmd.args, "-snapshot")
	}
	cmd.args = append(cmd.args, "-st", start, "-et", end)
	return cmd
}
