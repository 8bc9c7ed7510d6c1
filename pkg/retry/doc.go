// Package retry implements the condition-polling retry engine at the heart
// of the Anvil harness. Callers hand it a locator, an action, an action kind
// and a set of options; the engine polls the UI until the kind's readiness
// condition holds, performs the action, validates the result, and retries
// with configurable backoff when the failure is transient. Failures that
// survive all attempts surface as a single typed ActionError.
//
// The engine is driven through the Session and Element interfaces so that
// it never depends on a concrete browser driver; pkg/browser provides the
// Playwright-backed implementation.
package retry
