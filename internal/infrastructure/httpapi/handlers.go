package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"mcp-agent/internal/application/port/input"
	"mcp-agent/internal/domain/entity"
	"mcp-agent/internal/usecase/pagesnapshot"
	"mcp-agent/internal/usecase/snapshot"
	"mcp-agent/internal/usecase/tasks"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    ServiceName,
		"version": ServiceVersion,
		"status":  "running",
		"endpoints": map[string]string{
			"manifest": "/mcp/manifest",
			"invoke":   "/mcp/invoke",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type manifestTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type manifest struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Tools       []manifestTool `json:"tools"`
}

func agentExecutorTool() manifestTool {
	return manifestTool{
		Name:        entity.ToolAgentExecutor.String(),
		Description: "Runs the browsing agent on a natural language query and returns its final answer.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Task or question for the agent",
				},
				"system_instruction": map[string]any{
					"type":        "string",
					"description": "Replaces the default system prompt for this call",
				},
				"task_id": map[string]any{
					"type":        "string",
					"description": "Id for monitoring and retries; generated when omitted",
				},
			},
			"required": []string{"query"},
		},
	}
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	tools := []manifestTool{agentExecutorTool()}
	if s.deps.Tools != nil {
		for _, def := range s.deps.Tools.Definitions() {
			tools = append(tools, manifestTool{
				Name:        def.Name,
				Description: def.Description,
				InputSchema: def.Parameters,
			})
		}
	}
	writeJSON(w, http.StatusOK, manifest{
		Name:        ServiceName,
		Version:     ServiceVersion,
		Description: "Browser agent exposed as MCP tools",
		Tools:       tools,
	})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	limit := tasks.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	recs, err := s.deps.Tracker.Recent(r.Context(), limit)
	if err != nil {
		s.deps.Logger.Error("Failed to list tasks", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": recs})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	rec, err := s.deps.Tracker.Get(r.Context(), chi.URLParam(r, "taskID"))
	switch {
	case errors.Is(err, tasks.ErrTaskNotFound):
		writeDetail(w, http.StatusNotFound, "Task not found")
	case err != nil:
		s.deps.Logger.Error("Failed to read task", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to read task")
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req entity.NavigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeDetail(w, http.StatusBadRequest, pagesnapshot.ErrURLRequired.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Navigator.Navigate(r.Context(), req, input.Resources{}))
}

type snapshotRequest struct {
	URL      string `json:"url"`
	UseCache *bool  `json:"use_cache"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	useCache := req.UseCache == nil || *req.UseCache

	res, err := s.deps.Snapshots.Snapshot(r.Context(), req.URL, useCache)
	if err != nil {
		if errors.Is(err, pagesnapshot.ErrURLRequired) {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type testPromptRequest struct {
	Snapshot string `json:"snapshot"`
	Prompt   string `json:"prompt"`
}

func (s *Server) handleTestPrompt(w http.ResponseWriter, r *http.Request) {
	var req testPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Snapshot == "" || req.Prompt == "" {
		writeDetail(w, http.StatusBadRequest, "Both snapshot and prompt are required")
		return
	}
	writeJSON(w, http.StatusOK, snapshot.MatchPrompt(req.Snapshot, req.Prompt))
}
