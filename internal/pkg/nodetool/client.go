package nodetool

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"go.uber.org/zap"
)

// Client discovers cluster topology through nodetool. Any failure here is
// fatal to a run, there is nothing to plan a repair against without the
// ring.
type Client struct {
	tool       Tool
	runner     Runner
	logger     *zap.SugaredLogger
	datacenter string
}

func NewClient(tool Tool, runner Runner, logger *zap.SugaredLogger, datacenter string) *Client {
	return &Client{tool: tool, runner: runner, logger: logger, datacenter: datacenter}
}

// LocalNodes returns the members of the configured datacenter. In a
// multi-DC cluster it is important to only consider tokens on members of
// the local ring. Without a datacenter filter all members count and nil is
// returned.
func (c *Client) LocalNodes(ctx context.Context) ([]string, error) {
	if c.datacenter == "" {
		c.logger.Debug("No datacenter specified, all ring members' tokens will be considered")
		return nil, nil
	}
	c.logger.Debug("Determining local ring members")
	result := c.runner.Run(ctx, c.tool.Command("gossipinfo").String())
	if !result.Success {
		return nil, fmt.Errorf("cannot determine local nodes: %s", result.Stderr)
	}
	nodes := parseLocalNodes(result.Stdout, c.datacenter)
	c.logger.Infof("Local nodes: %s", strings.Join(nodes, " "))
	return nodes, nil
}

// RingTokens lists the token of every (filtered) ring member.
func (c *Client) RingTokens(ctx context.Context, localNodes []string) ([]*big.Int, error) {
	c.logger.Info("running nodetool ring, this will take a little bit of time")
	result := c.runner.Run(ctx, c.tool.Command("ring").String())
	if !result.Success {
		return nil, fmt.Errorf("cannot read ring tokens: %s", result.Stderr)
	}
	tokens, err := parseRingTokens(result.Stdout, localNodes, c.logger)
	if err != nil {
		return nil, err
	}
	c.logger.Infof("Found %d tokens", len(tokens))
	return tokens, nil
}

// OwnedTokens lists the tokens owned by the target node.
func (c *Client) OwnedTokens(ctx context.Context) ([]*big.Int, error) {
	result := c.runner.Run(ctx, c.tool.Command("info", "-T").String())
	if !result.Success || !strings.Contains(result.Stdout, "Token") {
		return nil, fmt.Errorf("cannot read host tokens: %s", result.Stderr)
	}
	tokens, err := parseOwnedTokens(result.Stdout)
	if err != nil {
		return nil, err
	}
	c.logger.Debugf("%d host tokens found", len(tokens))
	return tokens, nil
}

// Keyspaces enumerates all keyspaces and their column families.
func (c *Client) Keyspaces(ctx context.Context) (*orderedmap.OrderedMap, error) {
	c.logger.Info("running nodetool cfstats")
	result := c.runner.Run(ctx, c.tool.Command("cfstats").String())
	if !result.Success {
		return nil, fmt.Errorf("cannot enumerate keyspaces: %s", result.Stderr)
	}
	c.logger.Debug("cfstats retrieved, parsing output to retrieve keyspaces")
	keyspaces := parseKeyspaces(result.Stdout)
	c.logger.Infof("Found %d keyspaces", len(keyspaces.Keys()))
	return keyspaces, nil
}
