package repository

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// IDGenerator issues invoice IDs of the form <prefix><snowflake>.
type IDGenerator struct {
	prefix string
	node   *snowflake.Node
}

// NewIDGenerator creates a generator for the given snowflake node (0-1023).
func NewIDGenerator(prefix string, node int64) (*IDGenerator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("failed to create id node: %w", err)
	}
	return &IDGenerator{prefix: prefix, node: n}, nil
}

// NextInvoiceID returns a new, session-unique invoice ID.
func (g *IDGenerator) NextInvoiceID() string {
	return g.prefix + g.node.Generate().String()
}

// NewLineItemID returns a random UUID for a line item.
func NewLineItemID() string {
	return uuid.NewString()
}
