package prompts

import (
	_ "embed"
)

// DefaultSystemPrompt is a text/template over SystemPromptData.
//
//go:embed system.txt
var DefaultSystemPrompt string
