package browser

import (
	"fmt"
	"strings"

	"github.com/entrhq/anvil/pkg/retry"
)

// mapDriverError wraps a Playwright error with the retry sentinel matching
// its failure class, so the engine can classify with errors.Is while the
// driver's message stays available through the chain.
//
// Playwright reports actionability problems through message text rather
// than typed errors, so the mapping is by substring. An element-level
// action timeout means Playwright's own actionability checks (visible,
// stable, enabled, receives events) never passed — the element exists but
// refused interaction, which is the not-interactable class, not a
// condition timeout.
func mapDriverError(op string, err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not attached") || strings.Contains(msg, "detached"):
		return fmt.Errorf("%s: %w: %v", op, retry.ErrStale, err)
	case strings.Contains(msg, "intercepts pointer events"),
		strings.Contains(msg, "not visible"),
		strings.Contains(msg, "not enabled"),
		strings.Contains(msg, "element is disabled"),
		strings.Contains(msg, "outside of the viewport"),
		strings.Contains(msg, "timeout"):
		return fmt.Errorf("%s: %w: %v", op, retry.ErrNotInteractable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
