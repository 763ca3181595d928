// SPDX-License-Identifier: EPL-2.0

// Package tui provides the interactive single-choice menus used to pick a
// release and then an asset.
//
// Menus are described by the generic Menu type and shown through a Picker.
// HuhPicker is the terminal implementation built on charmbracelet/huh; tests
// and non-interactive callers supply their own Picker. Every menu lists a
// navigation entry ("Exit" or "Back") first, and Pick reports interrupts and
// end of input as a Cancelled choice rather than an error.
package tui
