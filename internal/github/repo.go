// SPDX-License-Identifier: MPL-2.0

package github

import (
	"fmt"
	"strings"
)

// RepoRef identifies a GitHub repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the reference in "owner/name" form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoRef extracts the owner and repository name from ref, which is either
// a bare "owner/name" pair or any URL or path whose last two slash-separated
// segments are the owner and name, e.g. "https://github.com/cli/cli".
//
// A trailing slash, a trailing ".git" suffix and any query or fragment are ignored.
func ParseRepoRef(ref string) (RepoRef, error) {
	trimmed := strings.TrimSpace(ref)
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.TrimRight(trimmed, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")

	segments := strings.Split(trimmed, "/")
	if len(segments) < 2 {
		return RepoRef{}, fmt.Errorf("%w: %q (expected owner/name or a repository URL)", ErrInvalidRepoRef, ref)
	}

	owner := segments[len(segments)-2]
	name := segments[len(segments)-1]

	// "https://name" splits into ["https:", "", "name"]; a scheme is never an owner.
	if owner == "" || name == "" || strings.HasSuffix(owner, ":") {
		return RepoRef{}, fmt.Errorf("%w: %q (expected owner/name or a repository URL)", ErrInvalidRepoRef, ref)
	}

	return RepoRef{Owner: owner, Name: name}, nil
}
