package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// InvoiceID is an opaque identifier. New IDs are snowflakes, so they sort by creation time.
type InvoiceID string

// IsEmpty reports whether the ID is blank
func (id InvoiceID) IsEmpty() bool {
	return strings.TrimSpace(string(id)) == ""
}

// UnmarshalJSON accepts both strings and numbers; older exports stored
// millisecond timestamps as numeric ids.
func (id *InvoiceID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = InvoiceID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invoice id must be a string or number: %w", err)
	}
	*id = InvoiceID(n.String())
	return nil
}

// IDGenerator hands out fresh invoice IDs
type IDGenerator interface {
	NewID() InvoiceID
}

// SnowflakeIDs generates time-ordered IDs from a snowflake node
type SnowflakeIDs struct {
	node *snowflake.Node
}

// NewSnowflakeIDs creates a generator for the given node number (0-1023)
func NewSnowflakeIDs(node int64) (*SnowflakeIDs, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("failed to create id node: %w", err)
	}
	return &SnowflakeIDs{node: n}, nil
}

// NewID returns the next ID
func (g *SnowflakeIDs) NewID() InvoiceID {
	return InvoiceID(g.node.Generate().String())
}
