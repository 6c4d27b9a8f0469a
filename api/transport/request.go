package transport

// TaskRequest carries the text of a task to create or edit.
type TaskRequest struct {
	Text string `json:"text"`
}

// PositionRequest carries the target display index for a reorder.
type PositionRequest struct {
	Index int `json:"index"`
}

// ArchiveCompletedResponse reports how many tasks a bulk archive touched.
type ArchiveCompletedResponse struct {
	Archived int `json:"archived"`
}
