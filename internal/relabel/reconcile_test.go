package relabel

import (
	"testing"

	"github.com/joshsymonds/labelmend/internal/gmail"
)

func TestReconcileInheritance(t *testing.T) {
	policy := DefaultPolicy()
	msgs := []gmail.MessageLabels{
		{ID: "m1", Labels: []gmail.LabelID{"Label_work"}},
		{ID: "m2", Labels: nil},
		{ID: "m3", Labels: []gmail.LabelID{"Label_work", "Label_urgent"}},
	}

	plan := Reconcile(msgs, policy)

	wantEligible := []gmail.LabelID{"Label_urgent", "Label_work"}
	if len(plan.Eligible) != len(wantEligible) {
		t.Fatalf("eligible = %v, want %v", plan.Eligible, wantEligible)
	}
	for i, l := range wantEligible {
		if plan.Eligible[i] != l {
			t.Fatalf("eligible = %v, want %v", plan.Eligible, wantEligible)
		}
	}

	wantMissing := map[gmail.MessageID][]gmail.LabelID{
		"m1": {"Label_urgent"},
		"m2": {"Label_urgent", "Label_work"},
	}
	if len(plan.Missing) != len(wantMissing) {
		t.Fatalf("missing = %v, want %v", plan.Missing, wantMissing)
	}
	for id, want := range wantMissing {
		got := plan.Missing[id]
		if len(got) != len(want) {
			t.Fatalf("missing[%s] = %v, want %v", id, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("missing[%s] = %v, want %v", id, got, want)
			}
		}
	}
	if plan.Additions() != 3 {
		t.Fatalf("additions = %d, want 3", plan.Additions())
	}
}

func TestReconcileSingleMessageThread(t *testing.T) {
	msgs := []gmail.MessageLabels{
		{ID: "m4", Labels: []gmail.LabelID{"Label_promo"}},
	}
	plan := Reconcile(msgs, DefaultPolicy())
	if !plan.Empty() {
		t.Fatalf("single-message thread produced plan %v", plan.Missing)
	}
}

func TestReconcileConsistentThread(t *testing.T) {
	msgs := []gmail.MessageLabels{
		{ID: "m1", Labels: []gmail.LabelID{"Label_a", "Label_b"}},
		{ID: "m2", Labels: []gmail.LabelID{"Label_b", "Label_a", "UNREAD"}},
	}
	plan := Reconcile(msgs, DefaultPolicy())
	if !plan.Empty() {
		t.Fatalf("consistent thread produced plan %v", plan.Missing)
	}
}

func TestReconcileExcludesPerMessageState(t *testing.T) {
	// UNREAD and STARRED are per-message state; they must not spread to
	// other messages even when inheriting system labels.
	policy := NewPolicy([]string{"UNREAD", "STARRED"}, "Label_", true)
	msgs := []gmail.MessageLabels{
		{ID: "m1", Labels: []gmail.LabelID{"Label_a", "UNREAD", "STARRED"}},
		{ID: "m2", Labels: []gmail.LabelID{"Label_a"}},
	}
	plan := Reconcile(msgs, policy)
	if !plan.Empty() {
		t.Fatalf("state labels leaked into plan %v", plan.Missing)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	policy := DefaultPolicy()
	msgs := []gmail.MessageLabels{
		{ID: "m1", Labels: []gmail.LabelID{"Label_work"}},
		{ID: "m2", Labels: nil},
	}

	plan := Reconcile(msgs, policy)
	if plan.Empty() {
		t.Fatal("expected a non-empty first plan")
	}

	// apply the plan locally and reconcile again
	for i := range msgs {
		msgs[i].Labels = append(msgs[i].Labels, plan.Missing[msgs[i].ID]...)
	}
	second := Reconcile(msgs, policy)
	if !second.Empty() {
		t.Fatalf("second reconcile not a no-op: %v", second.Missing)
	}
}

func TestPlanPerLabel(t *testing.T) {
	plan := Plan{
		Eligible: []gmail.LabelID{"Label_a", "Label_b"},
		Missing: map[gmail.MessageID][]gmail.LabelID{
			"m2": {"Label_a", "Label_b"},
			"m1": {"Label_b"},
		},
	}
	perLabel := plan.PerLabel()
	if len(perLabel) != 2 {
		t.Fatalf("perLabel has %d labels, want 2", len(perLabel))
	}
	a := perLabel["Label_a"]
	if len(a) != 1 || a[0] != "m2" {
		t.Fatalf("Label_a batch = %v, want [m2]", a)
	}
	b := perLabel["Label_b"]
	if len(b) != 2 || b[0] != "m1" || b[1] != "m2" {
		t.Fatalf("Label_b batch = %v, want [m1 m2]", b)
	}
}
