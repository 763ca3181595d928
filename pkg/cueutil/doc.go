// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE validation utilities.
//
// Validation follows three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode the result
//
// Errors carry the JSON path of the offending field, e.g.
// "config.cue: ui.theme: 2 errors in empty disjunction".
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema string
//
//	values, err := cueutil.DecodeToMap(schema, userFileBytes, "#Config", "config.cue")
package cueutil
