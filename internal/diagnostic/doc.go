// Package diagnostic provides the structured warnings and errors produced
// while parsing and unifying provider subscriptions.
//
// Warnings are returned to the caller alongside the parse result instead of
// being written to a logger. Key capabilities:
//   - Malformed-line and excess-component warnings
//   - Transform failures and key collisions from unification
//   - Fatal errors (missing sections, unknown providers) that identify the
//     provider, node and field involved
package diagnostic
