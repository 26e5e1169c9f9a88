package gmail

// ThreadID identifies a Gmail conversation thread.
type ThreadID string

// MessageID identifies a single message within a thread.
type MessageID string

// LabelID identifies a Gmail label. System labels use fixed ids
// ("INBOX", "UNREAD"); user labels carry an opaque "Label_..." id.
type LabelID string

// Label mirrors the label metadata we care about.
type Label struct {
	ID   LabelID
	Name string
	Type string // "system" or "user"
}

// MessageLabels is a message's identity plus its current label set.
// The label set is per-message ground truth; the thread-level label set
// Gmail displays is a derived union and is never trusted here.
type MessageLabels struct {
	ID     MessageID
	Labels []LabelID
}

// ThreadPage is one page of a thread listing.
type ThreadPage struct {
	IDs           []ThreadID
	NextPageToken string
}

// Query is a raw Gmail search query, already formed (e.g. `after:2024-01-01`).
type Query struct {
	Raw string
}
