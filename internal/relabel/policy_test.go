package relabel

import (
	"testing"

	"github.com/joshsymonds/labelmend/internal/gmail"
)

func TestPolicyEligible(t *testing.T) {
	tests := []struct {
		name          string
		exclude       []string
		inheritSystem bool
		label         gmail.LabelID
		want          bool
	}{
		{name: "user-label", label: "Label_123", want: true},
		{name: "system-not-inherited", label: "INBOX", want: false},
		{name: "system-inherited", inheritSystem: true, label: "INBOX", want: true},
		{
			name:          "system-excluded",
			exclude:       []string{"UNREAD"},
			inheritSystem: true,
			label:         "UNREAD",
			want:          false,
		},
		{
			name:    "user-label-explicitly-excluded",
			exclude: []string{"Label_123"},
			label:   "Label_123",
			want:    false,
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			p := NewPolicy(tc.exclude, "Label_", tc.inheritSystem)
			if got := p.Eligible(tc.label); got != tc.want {
				t.Fatalf("Eligible(%s) = %v, want %v", tc.label, got, tc.want)
			}
		})
	}
}
