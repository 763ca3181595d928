// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NetworkFailedId Id = iota + 1
	RateLimitedId
	RepositoryNotFoundId
	NoReleasesId
	NoAssetsId
	InvalidRepoRefId
	FileWriteFailedId
	ConfigLoadFailedId
	SelectionFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation for the failing API or feature
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	networkFailedIssue = &Issue{
		id: NetworkFailedId,
		mdMsg: `
# Could not reach GitHub

A request to the GitHub API or to the asset host failed.

## Things you can try:
- Check your network connection and any proxy settings (HTTPS_PROXY)
- Retry in a moment; transient 5xx errors are retried automatically
- Increase the number of retries in your config file:
~~~cue
retries: 5
http_timeout: "120s"
~~~`,
		docLinks: []HttpLink{"https://www.githubstatus.com"},
	}

	rateLimitedIssue = &Issue{
		id: RateLimitedId,
		mdMsg: `
# GitHub API rate limit exceeded

Unauthenticated requests are limited to 60 per hour.

## Things you can try:
- Wait until the limit resets
- Authenticate with a personal access token:
~~~
$ export GITHUB_TOKEN=ghp_...
$ gh-release-dl cli/cli
~~~`,
		docLinks: []HttpLink{"https://docs.github.com/en/rest/using-the-rest-api/rate-limits-for-the-rest-api"},
	}

	repositoryNotFoundIssue = &Issue{
		id: RepositoryNotFoundId,
		mdMsg: `
# Repository not found

GitHub answered 404 for this repository.

## Things you can try:
- Check the spelling of the owner and repository name
- Private repositories need a token with read access:
~~~
$ gh-release-dl --token ghp_... owner/private-repo
~~~`,
	}

	noReleasesIssue = &Issue{
		id: NoReleasesId,
		mdMsg: `
# No releases found

The repository exists but has no published releases. Tags without a release
are not listed by the Releases API.

## Things you can try:
- Open the repository's releases page in a browser to confirm
- Drop ` + "`--latest`" + `: the latest release excludes prereleases and drafts`,
		docLinks: []HttpLink{"https://docs.github.com/en/rest/releases/releases"},
	}

	noAssetsIssue = &Issue{
		id: NoAssetsId,
		mdMsg: `
# No downloadable files

The selected release has no uploaded assets.

## Things you can try:
- Run without ` + "`--latest`" + ` and choose an older release`,
	}

	invalidRepoRefIssue = &Issue{
		id: InvalidRepoRefId,
		mdMsg: `
# Invalid repository reference

The argument must be an owner/name pair or a repository URL.

## Examples:
~~~
$ gh-release-dl cli/cli
$ gh-release-dl https://github.com/cli/cli
$ gh-release-dl https://github.com/cli/cli.git
~~~`,
	}

	fileWriteFailedIssue = &Issue{
		id: FileWriteFailedId,
		mdMsg: `
# Could not write the download

Creating the destination directory or writing the file failed.

## Things you can try:
- Check that you can write to the destination directory
- Check the free disk space
- Choose another directory:
~~~
$ gh-release-dl --dir ~/Downloads cli/cli
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your configuration file could not be loaded.

## Things you can try:
- Check the config file syntax:
~~~
$ cat ~/.config/gh-release-dl/config.cue
~~~

- Print the effective configuration:
~~~
$ gh-release-dl config show
~~~

## Example config:
~~~cue
mode: "all"
download_dir: "~/Downloads"
ui: {
	theme: "dracula"
}
~~~`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	selectionFailedIssue = &Issue{
		id: SelectionFailedId,
		mdMsg: `
# Selection could not be matched

The menu returned an entry that does not correspond to any release or asset.
This is a bug; please report it together with the output of ` + "`--verbose`" + `.`,
	}

	catalog = []*Issue{
		networkFailedIssue,
		rateLimitedIssue,
		repositoryNotFoundIssue,
		noReleasesIssue,
		noAssetsIssue,
		invalidRepoRefIssue,
		fileWriteFailedIssue,
		configLoadFailedIssue,
		selectionFailedIssue,
	}
)

// Values returns every catalog entry in Id order.
func Values() []*Issue {
	return slices.Clone(catalog)
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	i := slices.IndexFunc(catalog, func(is *Issue) bool { return is.id == id })
	if i < 0 {
		return nil
	}
	return catalog[i]
}
