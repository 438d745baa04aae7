package models

type TaskType string

const (
	TaskTypeImport    TaskType = "import"
	TaskTypeExport    TaskType = "export"
	TaskTypeTranscode TaskType = "transcode"
)

type TaskPhase string

const (
	TaskPhasePending   TaskPhase = "pending"
	TaskPhaseWaiting   TaskPhase = "waiting"
	TaskPhaseRunning   TaskPhase = "running"
	TaskPhaseFailed    TaskPhase = "failed"
	TaskPhaseCompleted TaskPhase = "completed"
	TaskPhaseCancelled TaskPhase = "cancelled"
)

// Terminal reports whether a task in this phase will never change again.
func (p TaskPhase) Terminal() bool {
	return p == TaskPhaseCompleted || p == TaskPhaseFailed || p == TaskPhaseCancelled
}

// TaskStatus carries the pollable state of a remote task. Progress is a
// pointer so that "never reported" is distinguishable from a reported zero.
type TaskStatus struct {
	Phase        TaskPhase `json:"phase"`
	Progress     *float64  `json:"progress,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	UpdatedAt    int64     `json:"updatedAt,omitempty"`
}

// ImportOutput is set on completed import tasks.
type ImportOutput struct {
	AssetSpec *VideoSpec `json:"assetSpec,omitempty"`
}

// IpfsExportInfo holds the storage addresses produced by a completed export.
type IpfsExportInfo struct {
	VideoFileCid          string `json:"videoFileCid"`
	VideoFileUrl          string `json:"videoFileUrl,omitempty"`
	VideoFileGatewayUrl   string `json:"videoFileGatewayUrl,omitempty"`
	NftMetadataCid        string `json:"nftMetadataCid,omitempty"`
	NftMetadataUrl        string `json:"nftMetadataUrl,omitempty"`
	NftMetadataGatewayUrl string `json:"nftMetadataGatewayUrl,omitempty"`
}

type ExportTaskOutput struct {
	IPFS *IpfsExportInfo `json:"ipfs,omitempty"`
}

// TaskOutput is a tagged union keyed by the task type; only the member
// matching Task.Type is ever populated by the service.
type TaskOutput struct {
	Import *ImportOutput     `json:"import,omitempty"`
	Export *ExportTaskOutput `json:"export,omitempty"`
}

// Task is an asynchronous unit of remote work. Phase transitions are
// monotonic toward a terminal state; once terminal a task is immutable.
type Task struct {
	ID            string      `json:"id"`
	Type          TaskType    `json:"type"`
	InputAssetID  string      `json:"inputAssetId,omitempty"`
	OutputAssetID string      `json:"outputAssetId,omitempty"`
	Status        TaskStatus  `json:"status"`
	Output        *TaskOutput `json:"output,omitempty"`
}
