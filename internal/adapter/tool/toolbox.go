package tool

import (
	"mcp-agent/internal/application/port/input"
	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/application/service"
	"mcp-agent/internal/domain/entity"
	"mcp-agent/internal/infrastructure/browser/htmlclean"
	"mcp-agent/internal/usecase/snapshot"
)

var _ output.ToolProvider = (*Toolbox)(nil)

type Config struct {
	Launch  output.LaunchOptions
	Context output.ContextOptions
	Extract htmlclean.Config
}

// Toolbox builds the browser tools for one agent run around a fresh Session.
type Toolbox struct {
	launcher  output.Launcher
	navigator input.Navigator
	snapshots *snapshot.Snapshotter
	cfg       Config
	logger    output.LoggerPort
}

func NewToolbox(
	launcher output.Launcher,
	navigator input.Navigator,
	snapshots *snapshot.Snapshotter,
	cfg Config,
	logger output.LoggerPort,
) *Toolbox {
	return &Toolbox{
		launcher:  launcher,
		navigator: navigator,
		snapshots: snapshots,
		cfg:       cfg,
		logger:    logger,
	}
}

type toolSet struct {
	*service.ToolRegistryImpl
	session *Session
}

func (s *toolSet) Close() error {
	return s.session.Close()
}

func (b *Toolbox) Open() output.ToolSet {
	session := NewSession(b.launcher, b.cfg.Launch, b.cfg.Context, b.logger)
	return &toolSet{
		ToolRegistryImpl: service.NewToolRegistry(
			NewNavigateTool(b.navigator, session, b.logger),
			NewSnapshotTool(b.snapshots, session, b.logger),
			NewScreenshotTool(session, b.logger),
			NewExtractTool(session, b.cfg.Extract, b.logger),
		),
		session: session,
	}
}

func (b *Toolbox) Definitions() []entity.ToolDefinition {
	set := b.Open()
	defer set.Close()
	return set.Definitions()
}
