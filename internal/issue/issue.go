// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a troubleshooting guide. The zero value means "no guide".
type Id int

const (
	DirectoryNotFoundId Id = iota + 1
	ConfigLoadFailedId
	InvalidPatternId
	DefinitionErrorsId
	ShapeMismatchId
	PermissionDeniedId
)

type (
	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
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

// Render renders the guide with the named glamour style ("dark", "light", "auto").
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	directoryNotFoundIssue = &Issue{
		id: DirectoryNotFoundId,
		mdMsg: `
# Config repository directory not found!

The directory given to pipeconf does not exist or is not a directory.

## Things you can try:
- Check the path for typos
- Run pipeconf from the repository root and pass a relative path:
~~~
$ pipeconf parse ./ci
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

pipeconf could not read or validate its configuration file.

## Things you can try:
- Show where pipeconf looks for its config:
~~~
$ pipeconf config path
~~~

- Write a fresh default file and compare:
~~~
$ pipeconf config init
~~~

## Example config.cue:
~~~cue
pipeline_pattern: "**/*.gopipeline.json"
environment_pattern: "**/*.goenvironment.json"
strict: false
output: "text"
~~~`,
		docLinks: []HttpLink{"https://cuelang.org/docs/tour/"},
	}

	invalidPatternIssue = &Issue{
		id: InvalidPatternId,
		mdMsg: `
# Invalid file pattern!

A pipeline or environment pattern is not a valid glob.

## Pattern syntax:
- ` + "`*`" + ` matches any run of characters except ` + "`/`" + `
- ` + "`**`" + ` matches any number of directories
- ` + "`{a,b}`" + ` matches either alternative

## Things you can try:
- Quote the pattern so your shell does not expand it:
~~~
$ pipeconf parse --pipeline-pattern '**/*.gopipeline.json'
~~~`,
		extLinks: []HttpLink{"https://github.com/bmatcuk/doublestar#patterns"},
	}

	definitionErrorsIssue = &Issue{
		id: DefinitionErrorsId,
		mdMsg: `
# Some definition files were rejected!

Every file that matched a pattern was read, but some could not be used.
Each rejected file is listed with its reason.

## Common causes:
- The file is empty or contains ` + "`null`" + `
- The file is not valid JSON (trailing commas, comments, unquoted keys)
- The definition is an empty object

## Things you can try:
- Validate the file with a JSON linter
- Re-run with ` + "`--strict`" + ` to check required fields as well`,
	}

	shapeMismatchIssue = &Issue{
		id: ShapeMismatchId,
		mdMsg: `
# Unexpected pipeline structure!

A pipeline file is valid JSON, but a section does not have the expected shape.
Normalization needs:

- ` + "`materials`" + `: an array of objects
- ` + "`stages`" + `: an array of objects, each with an ` + "`approval`" + ` object and a ` + "`jobs`" + ` array
- ` + "`jobs[].tasks`" + `: an array of objects
- ` + "`run_if`" + `: a non-empty array of strings

## Things you can try:
- Look at the path in the error message, e.g. ` + "`stages[0].jobs[1].tasks`" + `
- Compare the file with a definition exported by the server`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

A definition file or directory could not be read.

## Things you can try:
- Check file and directory permissions
- Run pipeconf as a user that can read the repository checkout`,
	}

	issues = map[Id]*Issue{
		directoryNotFoundIssue.Id(): directoryNotFoundIssue,
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		invalidPatternIssue.Id():    invalidPatternIssue,
		definitionErrorsIssue.Id():  definitionErrorsIssue,
		shapeMismatchIssue.Id():     shapeMismatchIssue,
		permissionDeniedIssue.Id():  permissionDeniedIssue,
	}
)

// Values returns every guide ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the guide for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
