package relabel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joshsymonds/labelmend/internal/gmail"
)

// Outcome classifies how a thread that did not fully reconcile fared.
type Outcome string

const (
	OutcomeFailed  Outcome = "failed"  // no label additions landed
	OutcomePartial Outcome = "partial" // some batches landed, some did not
)

// ThreadFailure records a thread left unreconciled or half-reconciled.
// Re-running the tool redoes exactly the unfinished work.
type ThreadFailure struct {
	Thread  gmail.ThreadID `json:"thread"`
	Outcome Outcome        `json:"outcome"`
	Error   string         `json:"error"`
}

// Report summarizes one relabel run.
type Report struct {
	Started          time.Time       `json:"started"`
	Finished         time.Time       `json:"finished"`
	DryRun           bool            `json:"dry_run"`
	ThreadsScanned   int             `json:"threads_scanned"`
	ThreadsClean     int             `json:"threads_clean"`
	ThreadsModified  int             `json:"threads_modified"`
	MessagesModified int             `json:"messages_modified"`
	LabelsAdded      int             `json:"labels_added"`
	Failures         []ThreadFailure `json:"failures,omitempty"`
}

func (r *Report) recordFailure(id gmail.ThreadID, outcome Outcome, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	r.Failures = append(r.Failures, ThreadFailure{Thread: id, Outcome: outcome, Error: msg})
}

// Failed reports whether any thread was left unreconciled or partially
// reconciled; the process exit code keys off this.
func (r Report) Failed() bool { return len(r.Failures) > 0 }

// PrintHuman writes a readable run summary to the provided writer.
func PrintHuman(rep Report, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}
	var builder strings.Builder
	mode := ""
	if rep.DryRun {
		mode = " (dry-run)"
	}
	fmt.Fprintf(&builder, "labelmend relabel%s — %d threads scanned in %s\n",
		mode, rep.ThreadsScanned, rep.Finished.Sub(rep.Started).Round(time.Millisecond))
	fmt.Fprintf(&builder, "  consistent: %d\n", rep.ThreadsClean)
	fmt.Fprintf(&builder, "  relabeled:  %d (%d messages, %d labels added)\n",
		rep.ThreadsModified, rep.MessagesModified, rep.LabelsAdded)
	if len(rep.Failures) > 0 {
		fmt.Fprintf(&builder, "  incomplete: %d\n", len(rep.Failures))
		for _, f := range rep.Failures {
			fmt.Fprintf(&builder, "    %s thread %s: %s\n", f.Outcome, f.Thread, f.Error)
		}
	}
	if _, err := io.WriteString(w, builder.String()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// WriteJSON serializes the report to disk.
func WriteJSON(rep Report, path string) error {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return fmt.Errorf("path must not be empty")
	}
	clean = filepath.Clean(clean)
	if filepath.IsAbs(clean) {
		return fmt.Errorf("output path must be relative, got %s", clean)
	}
	if strings.HasPrefix(clean, "..") {
		return fmt.Errorf("output path %s escapes working directory", clean)
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	abs := filepath.Join(wd, clean)
	f, err := os.OpenFile(abs, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) // #nosec G304
	if err != nil {
		return fmt.Errorf("create %s: %w", abs, err)
	}
	defer func() { _ = f.Close() }()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if encodeErr := enc.Encode(rep); encodeErr != nil {
		return fmt.Errorf("encode report: %w", encodeErr)
	}
	return nil
}
