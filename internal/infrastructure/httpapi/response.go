package httpapi

import (
	"encoding/json"
	"net/http"
)

const (
	CodeInvalidJSON     = "INVALID_JSON"
	CodeUnknownTool     = "UNKNOWN_TOOL"
	CodeMissingArgument = "MISSING_ARGUMENT"
)

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// mcpResult is the MCP tool result envelope.
type mcpResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError"`
	Code    string        `json:"code,omitempty"`
}

func textResult(text string) mcpResult {
	return mcpResult{Content: []textContent{{Type: "text", Text: text}}}
}

func mcpError(text, code string) mcpResult {
	res := textResult(text)
	res.IsError = true
	res.Code = code
	return res
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type detailBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailBody{Detail: detail})
}
