package model

const MonitorStateCollection = "monitor_state"

// MonitorStateID is the _id of the single state document.
const MonitorStateID = "monitor_state"

// MonitorState persists process-level checkpoints across restarts. Today
// that is only the backfill-suppression completion marker, which keeps a
// restart from re-sweeping activity collections.
type MonitorState struct {
	ID                string `bson:"_id"`
	BackfillCompleted bool   `bson:"backfill_completed"`
	CompletedAt       int64  `bson:"completed_at"`
}
