// SPDX-License-Identifier: MPL-2.0

// Package github resolves repository references against the GitHub Releases API.
//
// The package is organized into three concerns:
//   - repo.go: parsing of "owner/name" references and repository URLs
//   - client.go: HTTP client for the Releases API (list, latest, asset streaming)
//   - errors.go: network, rate-limit and empty-result error types
package github
