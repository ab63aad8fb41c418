// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when definition files under a directory
// change.
//
// Events are filtered by doublestar patterns and coalesced over a debounce
// window, so an editor's write-then-rename produces one re-parse.
package watch
