package action

import "spirebridge/internal/domain/spire"

type Request struct {
	Intent spire.ActionIntent
}

type Response struct {
	Status     string           `json:"status"`
	Sequence   uint64           `json:"sequence"`
	ActionType spire.ActionType `json:"action"`
	QueueSize  int              `json:"queue_size"`
}

type ClearResponse struct {
	Removed int `json:"removed"`
}
