package gmail

import "context"

// Client is the narrow Gmail surface required by labelmend.
type Client interface {
	// ListLabels returns the account's full label inventory.
	ListLabels(ctx context.Context) ([]Label, error)
	// ListThreads returns one page of threads carrying the given label,
	// optionally narrowed by q.
	ListThreads(ctx context.Context, label LabelID, q Query, pageToken string, pageSize int) (ThreadPage, error)
	// GetThreadMessages returns every message in a thread with its
	// per-message label set.
	GetThreadMessages(ctx context.Context, id ThreadID) ([]MessageLabels, error)
	// BatchAddLabels adds labels to the given messages. Strictly additive:
	// existing labels are never removed or replaced.
	BatchAddLabels(ctx context.Context, ids []MessageID, add []LabelID) error
}
