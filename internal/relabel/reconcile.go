package relabel

import (
	"sort"

	"github.com/joshsymonds/labelmend/internal/gmail"
)

// Plan is the set of label additions needed to restore inheritance for one
// thread: every message must end up carrying the thread's eligible labels.
type Plan struct {
	Eligible []gmail.LabelID
	Missing  map[gmail.MessageID][]gmail.LabelID
}

// Reconcile computes which messages in a thread are missing which eligible
// labels. The eligible set is the policy-filtered union of the per-message
// label sets, folded here rather than read from any thread-level summary.
func Reconcile(msgs []gmail.MessageLabels, policy Policy) Plan {
	plan := Plan{Missing: map[gmail.MessageID][]gmail.LabelID{}}
	if len(msgs) < 2 {
		// a single message has nothing to inherit from
		return plan
	}

	union := map[gmail.LabelID]struct{}{}
	for _, m := range msgs {
		for _, l := range m.Labels {
			if policy.Eligible(l) {
				union[l] = struct{}{}
			}
		}
	}
	eligible := make([]gmail.LabelID, 0, len(union))
	for l := range union {
		eligible = append(eligible, l)
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i] < eligible[j] })
	plan.Eligible = eligible

	for _, m := range msgs {
		have := make(map[gmail.LabelID]struct{}, len(m.Labels))
		for _, l := range m.Labels {
			have[l] = struct{}{}
		}
		var missing []gmail.LabelID
		for _, l := range eligible {
			if _, ok := have[l]; !ok {
				missing = append(missing, l)
			}
		}
		if len(missing) > 0 {
			plan.Missing[m.ID] = missing
		}
	}
	return plan
}

// Empty reports whether the plan requires no label additions. An empty plan
// is the success case for consistent and single-message threads.
func (p Plan) Empty() bool { return len(p.Missing) == 0 }

// Additions counts the individual label additions the plan will perform.
func (p Plan) Additions() int {
	n := 0
	for _, missing := range p.Missing {
		n += len(missing)
	}
	return n
}

// PerLabel groups the messages missing each label, so one batch call can
// serve every message that needs that label. Message ids are sorted for
// deterministic batches.
func (p Plan) PerLabel() map[gmail.LabelID][]gmail.MessageID {
	out := map[gmail.LabelID][]gmail.MessageID{}
	for id, missing := range p.Missing {
		for _, l := range missing {
			out[l] = append(out[l], id)
		}
	}
	for _, ids := range out {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return out
}
