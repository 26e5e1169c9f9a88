package relabel

import (
	"strings"

	"github.com/joshsymonds/labelmend/internal/gmail"
)

// Policy decides which labels a thread confers on its messages. Labels that
// are per-message state (read/unread, starred) must never be inherited;
// exactly which ids those are is configuration, not code.
type Policy struct {
	exclude       map[gmail.LabelID]struct{}
	userPrefix    string
	inheritSystem bool
}

// NewPolicy builds a policy from an exclusion list, the id prefix marking
// user labels, and whether non-excluded system labels are inheritable too.
func NewPolicy(exclude []string, userPrefix string, inheritSystem bool) Policy {
	ex := make(map[gmail.LabelID]struct{}, len(exclude))
	for _, id := range exclude {
		ex[gmail.LabelID(id)] = struct{}{}
	}
	return Policy{exclude: ex, userPrefix: userPrefix, inheritSystem: inheritSystem}
}

// DefaultPolicy inherits user labels only.
func DefaultPolicy() Policy {
	return NewPolicy(nil, "Label_", false)
}

// Eligible reports whether a label may be inherited by the other messages in
// its thread.
func (p Policy) Eligible(id gmail.LabelID) bool {
	if _, ok := p.exclude[id]; ok {
		return false
	}
	if p.userPrefix != "" && strings.HasPrefix(string(id), p.userPrefix) {
		return true
	}
	return p.inheritSystem
}
