package output

import "mcp-agent/internal/domain/entity"

type SnapshotCache interface {
	Get(key string) (entity.SnapshotResult, bool)
	Put(key string, value entity.SnapshotResult)
	Len() int
}

type TokenCounter interface {
	CountTokens(text string) int
}
