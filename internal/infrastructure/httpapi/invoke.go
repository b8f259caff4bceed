package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"mcp-agent/internal/application/port/input"
	"mcp-agent/internal/domain/entity"
)

const noOutput = "No output generated"

type invokeRequest struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, mcpError("Invalid JSON body", CodeInvalidJSON))
		return
	}
	s.deps.Logger.Info("Invoke", "tool", req.Tool)

	tool := entity.ToolName(req.Tool)
	if tool == entity.ToolAgentExecutor {
		s.invokeAgent(w, r, req.Arguments)
		return
	}
	s.invokeTool(w, r, tool, req.Arguments)
}

func (s *Server) invokeAgent(w http.ResponseWriter, r *http.Request, args map[string]any) {
	query := stringArg(args, "query")
	if query == "" {
		s.deps.Logger.Warn("Missing 'query' in arguments")
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: "Missing required argument: 'query'",
			Code:  CodeMissingArgument,
		})
		return
	}

	opts := input.ExecuteOptions{SystemPrompt: stringArg(args, "system_instruction")}
	if opts.SystemPrompt != "" {
		s.deps.Logger.Info("Using custom system instruction", "length", len(opts.SystemPrompt))
	}

	taskID := stringArg(args, "task_id")
	if taskID == "" {
		taskID = uuid.NewString()
	}
	w.Header().Set("X-Task-ID", taskID)

	// Bookkeeping outlives a client disconnect.
	bookCtx := context.WithoutCancel(r.Context())
	rec := s.deps.Tracker.Start(bookCtx, taskID, query)

	res, err := s.executeWithRetry(r.Context(), query, opts)
	if err != nil {
		s.deps.Logger.Error("Error during agent execution", "task_id", taskID, "error", err)
		s.deps.Tracker.Fail(bookCtx, taskID, err)
		s.deps.Metrics.ObserveInvoke(entity.ToolAgentExecutor.String(), "error")
		writeJSON(w, http.StatusInternalServerError, mcpError("Agent execution failed: "+err.Error(), ""))
		return
	}

	answer := res.FinalAnswer
	if answer == "" {
		answer = noOutput
	}
	s.deps.Logger.Info("Agent execution completed", "task_id", taskID, "iterations", res.Iterations)
	s.deps.Tracker.Succeed(bookCtx, rec, answer)
	s.deps.Metrics.ObserveInvoke(entity.ToolAgentExecutor.String(), "success")
	writeJSON(w, http.StatusOK, textResult(answer))
}

// invokeTool runs a registered browser tool directly in a fresh tool session.
func (s *Server) invokeTool(w http.ResponseWriter, r *http.Request, name entity.ToolName, args map[string]any) {
	if s.deps.Tools == nil {
		s.unknownTool(w, name)
		return
	}
	set := s.deps.Tools.Open()
	defer func() {
		if err := set.Close(); err != nil {
			s.deps.Logger.Warn("Failed to release tool resources", "error", err)
		}
	}()

	tool, ok := set.Get(name)
	if !ok {
		s.unknownTool(w, name)
		return
	}

	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, mcpError("Invalid arguments", CodeInvalidJSON))
		return
	}

	out, err := tool.Execute(r.Context(), string(raw))
	if err != nil {
		s.deps.Logger.Error("Tool execution failed", "tool", name, "error", err)
		s.deps.Metrics.ObserveInvoke(name.String(), "error")
		writeJSON(w, http.StatusInternalServerError, mcpError("Tool execution failed: "+err.Error(), ""))
		return
	}
	s.deps.Metrics.ObserveInvoke(name.String(), "success")
	writeJSON(w, http.StatusOK, textResult(out))
}

func (s *Server) unknownTool(w http.ResponseWriter, name entity.ToolName) {
	s.deps.Logger.Warn("Unknown tool requested", "tool", name)
	s.deps.Metrics.ObserveInvoke("unknown", "rejected")
	writeJSON(w, http.StatusBadRequest, errorBody{
		Error: "Unknown tool: " + name.String(),
		Code:  CodeUnknownTool,
	})
}
