package model

// JobStatus represents the status of a download job
type JobStatus string

const (
	// JobStatusStarting means the job is registered but yt-dlp has not
	// reported any progress yet
	JobStatusStarting JobStatus = "starting"

	// JobStatusDownloading means the transfer is in progress
	JobStatusDownloading JobStatus = "downloading"

	// JobStatusFinished means the transfer has reached a terminal state
	JobStatusFinished JobStatus = "finished"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// CancelAction represents the user's requested way of stopping a job
type CancelAction string

const (
	// ActionNone means no cancellation has been requested
	ActionNone CancelAction = ""

	// ActionDiscard stops the job and throws away everything written so far
	ActionDiscard CancelAction = "del"

	// ActionPreserve stops the job but salvages the bytes already on disk
	// into a partial artifact that is still delivered to the user
	ActionPreserve CancelAction = "send"
)

// IsCancel returns true if the action actually requests a stop
func (a CancelAction) IsCancel() bool {
	return a == ActionDiscard || a == ActionPreserve
}

// ParseCancelAction maps callback payload data to a CancelAction
func ParseCancelAction(s string) (CancelAction, bool) {
	switch CancelAction(s) {
	case ActionDiscard:
		return ActionDiscard, true
	case ActionPreserve:
		return ActionPreserve, true
	}
	return ActionNone, false
}
