/*
Package coordinator enforces single-panel-visible exclusivity across the
editing modes.

# Overview

The coordinator owns:
  - The current mode (or none)
  - The static panel configuration table
  - Per-mode one-time initialization flags
  - Per-mode opaque state blobs for transient UI state
  - The transition gate serializing concurrent switch requests

It drives three collaborators it does not own: the region table, the
visual-transition animator, and the code-editing surface. Mode switches
arrive either through the store (uiMode field changes) or as direct
SwitchTo calls; both converge on the same transition path.

# Failure policy

No transition step is retried. Collaborator failures and panics are caught
at the transition boundary, logged with the attempted mode, and resolved by
forcing the empty state. Lifecycle callback failures are contained at their
call site and do not abort the transition. Invariant violations detected
after a transition are logged as warnings, not treated as fatal.
*/
package coordinator
