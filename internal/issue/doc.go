// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and Markdown troubleshooting guides.
//
// An ActionableError carries the failed operation, the resource involved and
// suggestions for the user. It may point at a guide from the catalog, which
// the CLI renders with glamour in verbose mode.
package issue
