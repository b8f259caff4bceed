package entity

type TaskStatus string

const (
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusSucceeded TaskStatus = "succeeded"
	TaskStatusFailed    TaskStatus = "failed"
)

// TaskRecord is the safe summary kept for an agent invocation. Raw queries and
// page captures are never stored, only previews and a digest.
type TaskRecord struct {
	TaskID            string     `json:"task_id"`
	CreatedAt         float64    `json:"created_at"`
	UpdatedAt         float64    `json:"updated_at"`
	Status            TaskStatus `json:"status"`
	Attempts          int        `json:"attempts"`
	QueryPreview      string     `json:"query_preview"`
	QuerySHA256       string     `json:"query_sha256"`
	LastOutputPreview *string    `json:"last_output_preview"`
	LastError         *string    `json:"last_error"`
}
