package confirm

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/uri"
	"golang.org/x/sync/errgroup"
)

// Decision is the aggregate verdict for a batch of URIs. Hidden means the
// edit proceeds without asking; otherwise Message must be shown and approved.
type Decision struct {
	Hidden  bool
	Outcome Outcome
	Message string
	Paths   []string
}

// Decide classifies every URI in the batch and builds one combined
// confirmation message. Per-URI checks run concurrently; they share no
// mutable state, so ordering is irrelevant. describe is a short description
// of the pending edit included in the message.
func (c *Checker) Decide(ctx context.Context, uris []uri.URI, describe string) Decision {
	outcomes := make([]Outcome, len(uris))
	g, _ := errgroup.WithContext(ctx)
	for i, u := range uris {
		i, u := i, u
		g.Go(func() error {
			outcomes[i] = c.CheckURI(u)
			return nil
		})
	}
	_ = g.Wait()

	highest := NoConfirmation
	present := make(map[Outcome]bool)
	var paths []string
	for i, out := range outcomes {
		if out == NoConfirmation {
			continue
		}
		if out > highest {
			highest = out
		}
		present[out] = true
		paths = append(paths, displayPath(uris[i]))
	}
	if len(paths) == 0 {
		return Decision{Hidden: true}
	}

	return Decision{
		Outcome: highest,
		Message: confirmationMessage(present, paths, describe),
		Paths:   paths,
	}
}

// confirmationMessage words the prompt by the most urgent reason present in
// the batch. The priority here (NoPermissions > Sensitive >
// OutsideWorkspace > SystemFile) is a wording order, deliberately not the
// severity order.
func confirmationMessage(present map[Outcome]bool, paths []string, describe string) string {
	var reason string
	switch {
	case present[NoPermissions]:
		reason = "permission checks could not be completed for these files"
	case present[Sensitive]:
		reason = "these files are configured to require confirmation"
	case present[OutsideWorkspace]:
		reason = "these files are outside your workspace"
	default:
		reason = "these files are system or application configuration files"
	}

	var b strings.Builder
	if describe != "" {
		fmt.Fprintf(&b, "%s: %s:\n", describe, reason)
	} else {
		fmt.Fprintf(&b, "Confirm edit, %s:\n", reason)
	}
	for _, p := range paths {
		fmt.Fprintf(&b, "  %s\n", p)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func displayPath(u uri.URI) string {
	if strings.HasPrefix(string(u), "file://") {
		return u.Filename()
	}
	return string(u)
}
