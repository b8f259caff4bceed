package output

import (
	"context"

	"mcp-agent/internal/domain/entity"
)

type ToolPort interface {
	Name() entity.ToolName
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, arguments string) (string, error)
}

type ToolRegistry interface {
	Register(tool ToolPort)
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
}

// ToolSet is a registry whose tools share resources, such as one browser
// page, that Close releases.
type ToolSet interface {
	ToolRegistry
	Close() error
}

// ToolProvider hands out a fresh ToolSet per agent run.
type ToolProvider interface {
	Open() ToolSet
	Definitions() []entity.ToolDefinition
}
