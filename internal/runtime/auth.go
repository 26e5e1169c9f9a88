package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mbrt/gmailctl/cmd/gmailctl/localcred"
	gmailv1 "google.golang.org/api/gmail/v1"

	gc "github.com/joshsymonds/labelmend/internal/gmail"
)

// Scope selects the Gmail OAuth scope the client is created with.
type Scope int

const (
	ScopeReadonly Scope = iota
	ScopeModify
)

// NewGmailClient builds an authenticated client from the gmailctl credential
// directory. Failure here is fatal: no work starts without a session.
func NewGmailClient(ctx context.Context, cfgDir string, scope Scope) (gc.Client, error) {
	var svc *gmailv1.Service
	var err error
	// localcred chooses scopes based on what the binary requests on first run
	switch scope {
	case ScopeReadonly:
		svc, err = (localcred.Provider{}).Service(ctx, cfgDir)
	case ScopeModify:
		svc, err = (localcred.Provider{}).Service(ctx, cfgDir)
	default:
		panic("unknown scope")
	}
	if err != nil {
		return nil, fmt.Errorf("obtain gmail session: %w", err)
	}
	return NewGoogleAPIClient(svc), nil
}

// DefaultLogger returns the process-wide text logger on stderr.
func DefaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
