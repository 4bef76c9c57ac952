package store

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

// IDGenerator hands out opaque, time ordered record ids.
type IDGenerator interface {
	NextID() string
}

type snowflakeIDs struct {
	node *snowflake.Node
}

func (s *snowflakeIDs) NextID() string {
	return s.node.Generate().String()
}

var (
	defaultIDs     IDGenerator
	defaultIDsOnce sync.Once
)

// NewIDGenerator creates a snowflake generator for the given node (0-1023).
func NewIDGenerator(node int64) (IDGenerator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}
	return &snowflakeIDs{node: n}, nil
}

// DefaultIDs is the node 1 generator used when a backend is built without one.
func DefaultIDs() IDGenerator {
	defaultIDsOnce.Do(func() {
		ids, err := NewIDGenerator(1)
		if err != nil {
			zap.L().Fatal("snowflake node init failed", zap.Error(err))
		}
		defaultIDs = ids
	})
	return defaultIDs
}
