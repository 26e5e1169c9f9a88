package relabel

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"
)

func sampleReport() Report {
	started := time.Unix(1700000000, 0)
	return Report{
		Started:          started,
		Finished:         started.Add(3 * time.Second),
		ThreadsScanned:   5,
		ThreadsClean:     3,
		ThreadsModified:  1,
		MessagesModified: 2,
		LabelsAdded:      4,
		Failures: []ThreadFailure{
			{Thread: "t9", Outcome: OutcomeFailed, Error: "thread vanished"},
		},
	}
}

func TestPrintHuman(t *testing.T) {
	var sb strings.Builder
	if err := PrintHuman(sampleReport(), &sb); err != nil {
		t.Fatalf("print failed: %v", err)
	}
	out := sb.String()
	for _, want := range []string{
		"5 threads scanned",
		"consistent: 3",
		"relabeled:  1 (2 messages, 4 labels added)",
		"incomplete: 1",
		"failed thread t9: thread vanished",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestPrintHumanDryRun(t *testing.T) {
	rep := sampleReport()
	rep.DryRun = true
	var sb strings.Builder
	if err := PrintHuman(rep, &sb); err != nil {
		t.Fatalf("print failed: %v", err)
	}
	if !strings.Contains(sb.String(), "(dry-run)") {
		t.Fatalf("output %q missing dry-run marker", sb.String())
	}
}

func TestWriteJSON(t *testing.T) {
	t.Chdir(t.TempDir())
	rep := sampleReport()
	if err := WriteJSON(rep, "report.json"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile("report.json")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.LabelsAdded != 4 || len(got.Failures) != 1 {
		t.Fatalf("round-tripped report = %+v", got)
	}
}

func TestWriteJSONRejectsBadPaths(t *testing.T) {
	rep := sampleReport()
	if err := WriteJSON(rep, ""); err == nil {
		t.Fatal("expected error for empty path")
	}
	if err := WriteJSON(rep, "/tmp/report.json"); err == nil {
		t.Fatal("expected error for absolute path")
	}
	if err := WriteJSON(rep, "../report.json"); err == nil {
		t.Fatal("expected error for escaping path")
	}
}
