// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Each error may link to a Markdown catalog entry that is
// rendered with glamour in verbose output.
package issue
