// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	MissingProjectDescriptorId Id = iota + 1
	MissingPluginId
	ReferenceTreeMissingId
	BuildToolNotFoundId
	ConfigLoadFailedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink // never empty
		extLinks []HttpLink
	}
)

var (
	render = glamour.Render

	projectDocs = HttpLink("https://github.com/nxrighthere/UnrealCLR#installation")
	dotnetDocs  = HttpLink("https://learn.microsoft.com/dotnet/core/tools/dotnet-publish")

	missingProjectDescriptorIssue = &Issue{
		id: MissingProjectDescriptorId,
		mdMsg: `
# Project file not found!

The installer must run against the root folder of an Unreal Engine project,
the one that holds the *.uproject file. Nothing was copied or built.

## Things you can try:
- Pass the project folder (or its .uproject file) as the first argument:
~~~
$ hotcompiler install "C:/Projects/MyGame"
~~~
- Run the installer from inside the project folder without arguments`,
		docLinks: []HttpLink{projectDocs},
	}

	missingPluginIssue = &Issue{
		id: MissingPluginId,
		mdMsg: `
# Plugin is not installed!

The plugin folder was not found under Plugins/ after the install step.
Module builds were not attempted.

## Things you can try:
- Re-run and answer yes when asked to install the plugin
- Check that the reference tree contains a Plugin folder:
~~~
$ hotcompiler install --reference /path/to/UnrealCLR
~~~
- Check that plugin_name in your config matches the plugin folder name`,
		docLinks: []HttpLink{projectDocs},
	}

	referenceTreeMissingIssue = &Issue{
		id: ReferenceTreeMissingId,
		mdMsg: `
# Reference tree not found!

The installer copies the plugin and managed sources from a reference
checkout. That folder could not be read.

## Things you can try:
- Point the installer at the checkout with --reference
- Set reference_root in your config file`,
		docLinks: []HttpLink{projectDocs},
	}

	buildToolNotFoundIssue = &Issue{
		id: BuildToolNotFoundId,
		mdMsg: `
# Build tool not found!

Building managed projects requires the .NET SDK command line tool.

## Things you can try:
- Install the .NET SDK and make sure it is on PATH:
~~~
$ dotnet --info
~~~
- Set build.tool in your config to the full path of the executable`,
		docLinks: []HttpLink{dotnetDocs},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The config file exists but could not be parsed or did not match the schema.

## Things you can try:
- Show where the file lives and what was loaded:
~~~
$ hotcompiler config path
$ hotcompiler config show
~~~
- Regenerate a default file with ` + "`hotcompiler config init --force`",
		docLinks: []HttpLink{projectDocs},
	}

	issues = map[Id]*Issue{
		missingProjectDescriptorIssue.Id(): missingProjectDescriptorIssue,
		missingPluginIssue.Id():            missingPluginIssue,
		referenceTreeMissingIssue.Id():     referenceTreeMissingIssue,
		buildToolNotFoundIssue.Id():        buildToolNotFoundIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
	}
)

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

// Render returns the guide as styled terminal text. An empty stylePath
// uses glamour's default style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	if stylePath == "" {
		stylePath = "auto"
	}
	return render(md.String(), stylePath)
}

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
