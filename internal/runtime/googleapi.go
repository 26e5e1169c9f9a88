// Package runtime adapts *gmail.Service to the small client interface.
package runtime

import (
	"context"
	"fmt"

	gmailv1 "google.golang.org/api/gmail/v1"

	gc "github.com/joshsymonds/labelmend/internal/gmail"
)

type googleClient struct{ svc *gmailv1.Service }

func NewGoogleAPIClient(svc *gmailv1.Service) *googleClient { return &googleClient{svc} }

func (g *googleClient) ListLabels(ctx context.Context) ([]gc.Label, error) {
	res, err := g.svc.Users.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	labels := make([]gc.Label, 0, len(res.Labels))
	for _, l := range res.Labels {
		labels = append(labels, gc.Label{ID: gc.LabelID(l.Id), Name: l.Name, Type: l.Type})
	}
	return labels, nil
}

func (g *googleClient) ListThreads(
	ctx context.Context,
	label gc.LabelID,
	q gc.Query,
	pageToken string,
	pageSize int,
) (gc.ThreadPage, error) {
	call := g.svc.Users.Threads.List("me").LabelIds(string(label)).MaxResults(int64(pageSize))
	if q.Raw != "" {
		call = call.Q(q.Raw)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	res, err := call.Context(ctx).Do()
	if err != nil {
		return gc.ThreadPage{}, err
	}
	page := gc.ThreadPage{NextPageToken: res.NextPageToken}
	for _, t := range res.Threads {
		page.IDs = append(page.IDs, gc.ThreadID(t.Id))
	}
	return page, nil
}

func (g *googleClient) GetThreadMessages(ctx context.Context, id gc.ThreadID) ([]gc.MessageLabels, error) {
	// minimal format carries exactly what reconciliation needs: message ids
	// and per-message labelIds, without payloads.
	res, err := g.svc.Users.Threads.Get("me", string(id)).Format("minimal").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	msgs := make([]gc.MessageLabels, 0, len(res.Messages))
	for _, m := range res.Messages {
		msgs = append(msgs, gc.MessageLabels{ID: gc.MessageID(m.Id), Labels: toLabelIDs(m.LabelIds)})
	}
	return msgs, nil
}

func (g *googleClient) BatchAddLabels(ctx context.Context, ids []gc.MessageID, add []gc.LabelID) error {
	if len(ids) == 0 || len(add) == 0 {
		return nil
	}
	req := &gmailv1.BatchModifyMessagesRequest{
		Ids:         toStrings(ids),
		AddLabelIds: toStringsL(add),
	}
	if err := g.svc.Users.Messages.BatchModify("me", req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("batch modify %d messages: %w", len(ids), err)
	}
	return nil
}

func toStrings(ids []gc.MessageID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func toStringsL(ids []gc.LabelID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func toLabelIDs(ids []string) []gc.LabelID {
	out := make([]gc.LabelID, len(ids))
	for i, id := range ids {
		out[i] = gc.LabelID(id)
	}
	return out
}

var _ gc.Client = (*googleClient)(nil)
