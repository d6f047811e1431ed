package nodetool

import (
	"fmt"
	"math/big"
	"regexp"
	"slices"
	"strings"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"go.uber.org/zap"

	"github.com/cassandra-tools/range-repair/internal/pkg/token"
)

// ringHeaderLines is the number of header lines `nodetool ring` prints
// before the first member row.
const ringHeaderLines = 4

// parseRingTokens scans `nodetool ring` output. Member rows have exactly 8
// fields with the token last. Rows of joining nodes own no steady range yet
// and are discarded, and so are nodes outside the local-node set when a
// datacenter filter is active (localNodes == nil disables the filter).
func parseRingTokens(stdout string, localNodes []string, logger *zap.SugaredLogger) ([]*big.Int, error) {
	var tokens []*big.Int
	lines := strings.Split(stdout, "\n")
	if len(lines) <= ringHeaderLines {
		return nil, nil
	}
	for _, line := range lines[ringHeaderLines:] {
		segments := strings.Fields(line)
		if len(segments) != 8 || segments[3] == "Joining" {
			logger.Debugf("Discarding: %s", line)
			continue
		}
		if localNodes != nil && !slices.Contains(localNodes, segments[0]) {
			logger.Debugf("Discarding node/token %s/%s", segments[0], segments[7])
			continue
		}
		t, err := token.Parse(segments[7])
		if err != nil {
			return nil, fmt.Errorf("invalid ring token: %s", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// parseOwnedTokens scans `nodetool info -T` output for the token lines of
// the target node.
func parseOwnedTokens(stdout string) ([]*big.Int, error) {
	var tokens []*big.Int
	for _, line := range strings.Split(stdout, "\n") {
		if !strings.HasPrefix(line, "Token") {
			continue
		}
		parts := strings.Fields(line)
		value := parts[len(parts)-1]
		t, err := token.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("invalid host token: %s", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// parseLocalNodes extracts the members of one datacenter from `nodetool
// gossipinfo` output. The output is one paragraph per node, separated by
// the "/" of the node address line. This is a really well-specified value,
// if the gossipinfo format changes this has to be revisited.
func parseLocalNodes(stdout, datacenter string) []string {
	pattern := regexp.MustCompile(fmt.Sprintf(`DC(?::\d+)?:%s`, regexp.QuoteMeta(datacenter)))
	var nodes []string
	for _, paragraph := range strings.Split(stdout, "/") {
		if !pattern.MatchString(paragraph) {
			continue
		}
		fields := strings.Fields(paragraph)
		if len(fields) > 0 {
			nodes = append(nodes, fields[0])
		}
	}
	return nodes
}

// parseKeyspaces builds the keyspace -> column families mapping from
// `nodetool cfstats` output. Iteration order follows the output so the
// per-keyspace exclusion expansion is deterministic.
func parseKeyspaces(stdout string) *orderedmap.OrderedMap {
	keyspaces := orderedmap.New()
	keyspace := ""
	for _, line := range strings.Split(stdout, "\n") {
		switch {
		case strings.HasPrefix(line, "Keyspace: "):
			keyspace = strings.TrimPrefix(line, "Keyspace: ")
			keyspaces.Set(keyspace, []string{})
		case strings.HasPrefix(line, "\t\tTable: ") && keyspace != "":
			table := strings.TrimPrefix(line, "\t\tTable: ")
			families, _ := keyspaces.Get(keyspace)
			keyspaces.Set(keyspace, append(families.([]string), table))
		}
	}
	return keyspaces
}
