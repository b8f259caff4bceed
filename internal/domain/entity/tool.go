package entity

type ToolName string

const (
	ToolAgentExecutor     ToolName = "agent_executor"
	ToolBrowserNavigate   ToolName = "browser_navigate"
	ToolBrowserSnapshot   ToolName = "browser_snapshot"
	ToolBrowserScreenshot ToolName = "browser_screenshot"
	ToolBrowserExtract    ToolName = "browser_extract"
)

func (t ToolName) String() string {
	return string(t)
}
