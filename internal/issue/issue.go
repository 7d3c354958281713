// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestExistsId
	ManifestInvalidId
	PackageInvalidId
	AuthorizationDeniedId
	AuthorizationTimedOutId
	PublishJobFailedId
	PublishJobTimedOutId
	RegistryUnreachableId
	RegistryErrorId
	ConfigLoadFailedId
)

const docsURL HttpLink = "https://uiua.boo/"

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
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

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No boo.json found!

Boo looks for a package manifest named ` + "`boo.json`" + ` in the current directory.

## Things you can try:
- Create a new package here:
~~~
$ boo init scope/name
~~~

- Or change into the package directory:
~~~
$ cd /path/to/your/package
~~~`,
		docLinks: []HttpLink{docsURL},
	}

	manifestExistsIssue = &Issue{
		id: ManifestExistsId,
		mdMsg: `
# A package already exists here!

This directory already contains a ` + "`boo.json`" + `, and boo will not overwrite it.

## Things you can try:
- Edit the existing manifest instead
- Run ` + "`boo init`" + ` in an empty directory`,
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Invalid boo.json!

The package manifest could not be read or contains invalid values.

## Rules:
- ` + "`name`" + ` is ` + "`scope/name`" + `: each part 2 to 32 characters of ASCII letters, digits, and single dashes, not starting or ending with a dash
- ` + "`version`" + ` is a semantic version such as ` + "`0.1.0`" + `

## Example:
~~~json
{
  "name": "foo/bar",
  "version": "0.1.0"
}
~~~`,
		docLinks: []HttpLink{docsURL},
		extLinks: []HttpLink{"https://semver.org/"},
	}

	packageInvalidIssue = &Issue{
		id: PackageInvalidId,
		mdMsg: `
# The package failed validation!

The archive was rejected before anything was sent to the registry.

## Things you can try:
- Check that ` + "`lib.ua`" + ` or ` + "`main.ua`" + ` exists at the package root
- Narrow the ` + "`include`" + ` patterns in boo.json to leave out large files
- Inspect the package locally:
~~~
$ boo validate
~~~`,
	}

	authorizationDeniedIssue = &Issue{
		id: AuthorizationDeniedId,
		mdMsg: `
# Authorization denied!

The publish request was declined on the approval page.

## Things you can try:
- Run ` + "`boo publish`" + ` again and approve the request
- Make sure you are signed in with an account that owns the package scope`,
		docLinks: []HttpLink{docsURL},
	}

	authorizationTimedOutIssue = &Issue{
		id: AuthorizationTimedOutId,
		mdMsg: `
# Authorization timed out!

Nobody approved the request before it expired.

## Things you can try:
- Run ` + "`boo publish`" + ` again and open the printed link right away
- Raise ` + "`publish.auth_timeout`" + ` in your config file`,
	}

	publishJobFailedIssue = &Issue{
		id: PublishJobFailedId,
		mdMsg: `
# Publishing failed!

The registry processed the package and rejected it. The reasons are listed above.

## Things you can try:
- Fix the reported problems and bump the package version
- Validate the package locally first:
~~~
$ boo validate
~~~`,
	}

	publishJobTimedOutIssue = &Issue{
		id: PublishJobTimedOutId,
		mdMsg: `
# Publishing timed out!

The registry did not finish processing the package in time. It may still complete.

## Things you can try:
- Check the package page on the registry before retrying
- Raise ` + "`publish.job_timeout`" + ` in your config file`,
	}

	registryUnreachableIssue = &Issue{
		id: RegistryUnreachableId,
		mdMsg: `
# Could not reach the registry!

The request never got a response.

## Things you can try:
- Check your internet connection
- Check ` + "`api.url`" + ` in your config file, or the ` + "`BOO_API_URL`" + ` environment variable
- Run with verbose mode for more details:
~~~
$ boo --verbose publish
~~~`,
	}

	registryErrorIssue = &Issue{
		id: RegistryErrorId,
		mdMsg: `
# The registry returned an error!

The registry answered, but not with what boo expected.

## Things you can try:
- Retry in a few minutes
- Update boo to the latest version`,
		docLinks: []HttpLink{docsURL},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your configuration file contains errors.

## Things you can try:
- Check your config file for CUE syntax errors
- Print the effective configuration:
~~~
$ boo config show
~~~

- Reset to the defaults by removing the file and running:
~~~
$ boo config init
~~~`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():      manifestNotFoundIssue,
		manifestExistsIssue.Id():        manifestExistsIssue,
		manifestInvalidIssue.Id():       manifestInvalidIssue,
		packageInvalidIssue.Id():        packageInvalidIssue,
		authorizationDeniedIssue.Id():   authorizationDeniedIssue,
		authorizationTimedOutIssue.Id(): authorizationTimedOutIssue,
		publishJobFailedIssue.Id():      publishJobFailedIssue,
		publishJobTimedOutIssue.Id():    publishJobTimedOutIssue,
		registryUnreachableIssue.Id():   registryUnreachableIssue,
		registryErrorIssue.Id():         registryErrorIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

// Values returns every registered issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id - b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
