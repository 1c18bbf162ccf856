// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	ToolchainUnavailableId Id = iota + 1
	RepositoryUnavailableId
	RevisionNotFoundId
	CheckoutFailedId
	InstallFailedId
	ActivateFailedId
	SearchPathFailedId
	InvalidSourceId
	ConfigLoadFailedId
	PrebuiltUnavailableId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // upstream documentation for the failing step
	extLinks []HttpLink  // external links that might be useful for the user
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
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

const (
	emsdkDocs     HttpLink = "https://emscripten.org/docs/getting_started/downloads.html"
	emsdkRepo     HttpLink = "https://github.com/emscripten-core/emsdk"
	prebuiltBuild HttpLink = "https://github.com/koute/emscripten-build/releases"
)

var (
	render = glamour.Render

	toolchainUnavailableIssue = &Issue{
		id: ToolchainUnavailableId,
		mdMsg: `
# You don't have Emscripten installed!

No ` + "`emcc`" + ` executable was found on your search path, even after provisioning.

## Things you can try:
- Run the full provisioning flow and look for earlier errors:
~~~
$ emprep prepare --verbose
~~~

- Check that the destination directory was added to your PATH:
~~~
$ emprep check
~~~

- Install Emscripten with your package manager, or manually with emsdk.`,
		docLinks: []HttpLink{emsdkDocs},
	}

	repositoryUnavailableIssue = &Issue{
		id: RepositoryUnavailableId,
		mdMsg: `
# Could not get the Emscripten SDK repository!

The emsdk repository could not be opened at the destination, and cloning it failed.

## Things you can try:
- Check your network connection and the configured ` + "`repository_url`" + `
- For private mirrors, export ` + "`GITHUB_TOKEN`" + `, ` + "`GITLAB_TOKEN`" + ` or ` + "`GIT_TOKEN`" + `, or add an SSH key to ~/.ssh
- Remove a half-cloned destination directory and retry`,
		docLinks: []HttpLink{emsdkRepo},
	}

	revisionNotFoundIssue = &Issue{
		id: RevisionNotFoundId,
		mdMsg: `
# Emscripten SDK revision not found!

The configured ` + "`revision`" + ` does not name a branch, tag or commit in the repository.

## Things you can try:
- List what the repository offers:
~~~
$ git -C <destination> ls-remote origin
~~~

- Use a full commit id to pin the SDK exactly`,
		docLinks: []HttpLink{emsdkRepo},
	}

	checkoutFailedIssue = &Issue{
		id: CheckoutFailedId,
		mdMsg: `
# Could not check out the Emscripten SDK!

The working tree at the destination could not be updated to the pinned revision.

## Things you can try:
- Look for local edits to tracked files in the destination:
~~~
$ git -C <destination> status
~~~

- Discard them by setting ` + "`force_checkout: true`" + ` in your config
- Check that you own the destination directory`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# emsdk install failed!

The Emscripten SDK installer exited with an error. Its output is shown above.

## Things you can try:
- Check that the configured ` + "`sdk_version`" + ` exists:
~~~
$ <destination>/emsdk list
~~~

- Make sure python3 and git are installed; emsdk needs both
- Free some disk space; an SDK takes several gigabytes`,
		docLinks: []HttpLink{emsdkDocs},
	}

	activateFailedIssue = &Issue{
		id: ActivateFailedId,
		mdMsg: `
# emsdk activate failed!

The SDK was installed but could not be activated. Its output is shown above.

## Things you can try:
- Re-run the activation on its own:
~~~
$ emprep activate --verbose
~~~

- Check that the destination's ` + "`.emscripten`" + ` file is writable`,
		docLinks: []HttpLink{emsdkDocs},
	}

	searchPathFailedIssue = &Issue{
		id: SearchPathFailedId,
		mdMsg: `
# Could not extend the search path!

The destination directory cannot be added to PATH because it contains a
character that separates PATH entries.

## Things you can try:
- Choose a ` + "`destination`" + ` without ':' (or ';' and '"' on Windows)`,
	}

	invalidSourceIssue = &Issue{
		id: InvalidSourceId,
		mdMsg: `
# Invalid Emscripten SDK source!

The repository URL, revision or SDK version in your configuration is not usable.

## Things you can try:
- Show the effective configuration:
~~~
$ emprep config show
~~~

- Revision and version must not be empty; the URL must be https, ssh, git@, file:// or an absolute path`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

There was an error loading your emprep configuration file.

## Things you can try:
- Check the config file syntax:
~~~
$ cat "$(emprep config path)"
~~~

- Reset to default configuration:
~~~
$ emprep config init --force
~~~

- Check file permissions on the config directory`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	prebuiltUnavailableIssue = &Issue{
		id: PrebuiltUnavailableId,
		mdMsg: `
# No prebuilt Emscripten for this platform!

Prebuilt archives exist only for Linux on x86_64 and x86.

## Things you can try:
- Build from the emsdk repository instead:
~~~
$ emprep prepare
~~~`,
		extLinks: []HttpLink{prebuiltBuild},
	}

	issues = map[Id]*Issue{
		toolchainUnavailableIssue.Id():  toolchainUnavailableIssue,
		repositoryUnavailableIssue.Id(): repositoryUnavailableIssue,
		revisionNotFoundIssue.Id():      revisionNotFoundIssue,
		checkoutFailedIssue.Id():        checkoutFailedIssue,
		installFailedIssue.Id():         installFailedIssue,
		activateFailedIssue.Id():        activateFailedIssue,
		searchPathFailedIssue.Id():      searchPathFailedIssue,
		invalidSourceIssue.Id():         invalidSourceIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		prebuiltUnavailableIssue.Id():   prebuiltUnavailableIssue,
	}
)

// Values returns every known issue ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
