// Package relabel restores label inheritance: every message in a labeled
// thread ends up carrying the thread's eligible labels. Writes are strictly
// additive; nothing is ever removed.
package relabel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joshsymonds/labelmend/internal/gmail"
	"github.com/joshsymonds/labelmend/internal/rate"
	"github.com/joshsymonds/labelmend/internal/retry"
)

// Costs mirrors the Gmail quota unit charge of each method we call.
type Costs struct {
	LabelsList  int
	ThreadsList int
	ThreadsGet  int
	BatchModify int
}

// DefaultCosts matches the published Gmail quota charges.
func DefaultCosts() Costs {
	return Costs{LabelsList: 1, ThreadsList: 10, ThreadsGet: 10, BatchModify: 50}
}

// Spec describes one relabel run.
type Spec struct {
	Labels    []string // restrict to these user label names; empty means all
	Since     string   // date lower bound for thread discovery, already parsed
	Until     string   // date upper bound
	DryRun    bool
	PageSize  int
	BatchSize int
}

// Service walks labeled threads serially and restores label inheritance.
type Service struct {
	Client  gmail.Client
	Limiter rate.Limiter
	Logger  *slog.Logger
	Policy  Policy
	Retry   retry.Policy
	Costs   Costs
	Clock   func() time.Time
}

// NewService constructs a Service with sane defaults.
func NewService(client gmail.Client, limiter rate.Limiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Service{
		Client:  client,
		Limiter: limiter,
		Logger:  logger,
		Policy:  DefaultPolicy(),
		Retry:   retry.DefaultPolicy(),
		Costs:   DefaultCosts(),
		Clock:   time.Now,
	}
}

// Run enumerates labeled threads, reconciles each one, and applies the
// missing labels. Per-thread failures are recorded in the report and do not
// abort the run; enumeration and setup failures do.
func (s *Service) Run(ctx context.Context, spec Spec) (Report, error) {
	pageSize := spec.PageSize
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 500
	}
	batchSize := spec.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	rep := Report{Started: s.Clock(), DryRun: spec.DryRun}

	labels, err := s.listLabels(ctx)
	if err != nil {
		rep.Finished = s.Clock()
		return rep, fmt.Errorf("list labels: %w", err)
	}
	targets, err := selectLabels(labels, spec.Labels, s.Policy)
	if err != nil {
		rep.Finished = s.Clock()
		return rep, err
	}
	s.Logger.InfoContext(ctx, "relabeling",
		"labels", len(targets), "dry_run", spec.DryRun, "since", spec.Since, "until", spec.Until)

	q := buildQuery(spec.Since, spec.Until)
	seen := map[gmail.ThreadID]struct{}{}
	for _, label := range targets {
		token := ""
		for {
			page, err := s.listThreads(ctx, label.ID, q, token, pageSize)
			if err != nil {
				rep.Finished = s.Clock()
				return rep, fmt.Errorf("list threads for %q: %w", label.Name, err)
			}
			for _, id := range page.IDs {
				if _, ok := seen[id]; ok {
					// threads carrying several labels are reconciled once
					continue
				}
				seen[id] = struct{}{}
				s.processThread(ctx, id, batchSize, spec.DryRun, &rep)
				if ctx.Err() != nil {
					rep.Finished = s.Clock()
					return rep, ctx.Err()
				}
			}
			if page.NextPageToken == "" {
				break
			}
			token = page.NextPageToken
		}
		s.Logger.InfoContext(ctx, "label done", "label", label.Name, "threads_seen", len(seen))
	}

	rep.Finished = s.Clock()
	return rep, nil
}

// processThread runs the reconcile-then-apply cycle for one thread. The
// cycle is self-contained: failures mark the thread in the report and the
// caller moves on to the next thread.
func (s *Service) processThread(
	ctx context.Context,
	id gmail.ThreadID,
	batchSize int,
	dryRun bool,
	rep *Report,
) {
	rep.ThreadsScanned++
	msgs, err := s.threadMessages(ctx, id)
	if err != nil {
		s.Logger.WarnContext(ctx, "skipping thread", "thread", id, "error", err)
		rep.recordFailure(id, OutcomeFailed, err)
		return
	}

	plan := Reconcile(msgs, s.Policy)
	if plan.Empty() {
		rep.ThreadsClean++
		return
	}

	if dryRun {
		s.Logger.InfoContext(ctx, "would relabel",
			"thread", id, "messages", len(plan.Missing), "additions", plan.Additions())
		rep.ThreadsModified++
		rep.MessagesModified += len(plan.Missing)
		rep.LabelsAdded += plan.Additions()
		return
	}

	added, touched, firstErr := s.applyPlan(ctx, plan, batchSize)
	rep.LabelsAdded += added
	rep.MessagesModified += len(touched)
	switch {
	case firstErr == nil:
		rep.ThreadsModified++
		s.Logger.InfoContext(ctx, "relabeled",
			"thread", id, "messages", len(touched), "additions", added)
	case added > 0:
		s.Logger.WarnContext(ctx, "thread partially relabeled", "thread", id, "error", firstErr)
		rep.recordFailure(id, OutcomePartial, firstErr)
	default:
		s.Logger.WarnContext(ctx, "thread relabel failed", "thread", id, "error", firstErr)
		rep.recordFailure(id, OutcomeFailed, firstErr)
	}
}

// applyPlan issues one additive batch call per missing label, chunked at the
// batch ceiling. It returns the additions applied, the distinct messages
// touched, and the first batch error encountered.
func (s *Service) applyPlan(
	ctx context.Context,
	plan Plan,
	batchSize int,
) (added int, touched map[gmail.MessageID]struct{}, firstErr error) {
	perLabel := plan.PerLabel()
	labels := make([]gmail.LabelID, 0, len(perLabel))
	for l := range perLabel {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	touched = map[gmail.MessageID]struct{}{}
	for _, label := range labels {
		ids := perLabel[label]
		for i := 0; i < len(ids); i += batchSize {
			j := i + batchSize
			if j > len(ids) {
				j = len(ids)
			}
			chunk := ids[i:j]
			if err := s.batchAdd(ctx, chunk, label); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				if ctx.Err() != nil {
					return added, touched, firstErr
				}
				continue
			}
			added += len(chunk)
			for _, id := range chunk {
				touched[id] = struct{}{}
			}
		}
	}
	return added, touched, firstErr
}

func (s *Service) listLabels(ctx context.Context) ([]gmail.Label, error) {
	var labels []gmail.Label
	err := s.do(ctx, s.Costs.LabelsList, func() error {
		var err error
		labels, err = s.Client.ListLabels(ctx)
		return err
	})
	return labels, err
}

func (s *Service) listThreads(
	ctx context.Context,
	label gmail.LabelID,
	q gmail.Query,
	token string,
	pageSize int,
) (gmail.ThreadPage, error) {
	var page gmail.ThreadPage
	err := s.do(ctx, s.Costs.ThreadsList, func() error {
		var err error
		page, err = s.Client.ListThreads(ctx, label, q, token, pageSize)
		return err
	})
	return page, err
}

func (s *Service) threadMessages(ctx context.Context, id gmail.ThreadID) ([]gmail.MessageLabels, error) {
	var msgs []gmail.MessageLabels
	err := s.do(ctx, s.Costs.ThreadsGet, func() error {
		var err error
		msgs, err = s.Client.GetThreadMessages(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get thread %s: %w", id, err)
	}
	return msgs, nil
}

func (s *Service) batchAdd(ctx context.Context, ids []gmail.MessageID, label gmail.LabelID) error {
	err := s.do(ctx, s.Costs.BatchModify, func() error {
		return s.Client.BatchAddLabels(ctx, ids, []gmail.LabelID{label})
	})
	if err != nil {
		return fmt.Errorf("add label %s to %d messages: %w", label, len(ids), err)
	}
	return nil
}

// do charges the limiter for the call's quota units, then runs it under the
// retry policy.
func (s *Service) do(ctx context.Context, units int, fn func() error) error {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx, units); err != nil {
			return err
		}
	}
	return s.Retry.Do(ctx, fn)
}

// selectLabels narrows the label inventory to inheritable targets, further
// restricted to the names asked for on the command line.
func selectLabels(all []gmail.Label, names []string, policy Policy) ([]gmail.Label, error) {
	if len(names) == 0 {
		var out []gmail.Label
		for _, l := range all {
			if policy.Eligible(l.ID) {
				out = append(out, l)
			}
		}
		return out, nil
	}
	byName := make(map[string]gmail.Label, len(all))
	for _, l := range all {
		byName[l.Name] = l
	}
	out := make([]gmail.Label, 0, len(names))
	for _, name := range names {
		l, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown label %q", name)
		}
		if !policy.Eligible(l.ID) {
			return nil, fmt.Errorf("label %q is not inheritable", name)
		}
		out = append(out, l)
	}
	return out, nil
}

func buildQuery(since, until string) gmail.Query {
	var parts []string
	if since != "" {
		parts = append(parts, "after:"+since)
	}
	if until != "" {
		parts = append(parts, "before:"+until)
	}
	return gmail.Query{Raw: strings.Join(parts, " ")}
}
