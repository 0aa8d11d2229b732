package events

var ListUpdatedTopic = "ListUpdatedEvent"

// ListUpdated is published after a list view applied new jobs or lookups.
// Subscribers read the view from the session identified by SessionID.
type ListUpdated struct {
	SessionID int64
}
