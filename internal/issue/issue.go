// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	RunefileNotFoundId Id = iota + 1
	SyntaxErrorId
	PathFormatErrorId
	DanglingReferenceId
	DuplicateStageId
	ConflictingDependencyId
	InvalidStageTypeId
	ModelFileNotFoundId
	ArtifactWriteFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links for this issue type
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
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	runefileNotFoundIssue = &Issue{
		id: RunefileNotFoundId,
		mdMsg: `
# No Runefile found!

We looked for a Runefile but couldn't find one at the path you gave.

## Things you can try:
- Check the path for typos
- Point the build at your pipeline description explicitly:
~~~
$ runec build path/to/Runefile
~~~

## Example Runefile:
~~~
FROM runicos/base

CAPABILITY<f32[1]> RAND rand --n 1
MODEL<f32[1],f32[1]> ./sinemodel.tflite sine

RUN rand sine
OUT serial
~~~`,
	}

	syntaxErrorIssue = &Issue{
		id: SyntaxErrorId,
		mdMsg: `
# Failed to parse the Runefile!

Your Runefile contains an instruction the grammar doesn't recognize.

## Common issues:
- A misspelled keyword (FROM, CAPABILITY, PROC_BLOCK, MODEL, RUN, OUT)
- A missing stage name or type list
- A stray token at the end of a line

## Things you can try:
- Check the span reported in the error message above
- Validate without building:
~~~
$ runec check Runefile
~~~

## Example of a valid instruction:
~~~
PROC_BLOCK<f32[1],f32[1]> hotg-ai/rune#proc_blocks/modulo mod360 --modulus 360
~~~`,
	}

	pathFormatErrorIssue = &Issue{
		id: PathFormatErrorId,
		mdMsg: `
# Malformed dependency path!

A dependency reference doesn't follow the base@version#sub_path syntax.

## Valid examples:
~~~
hotg-ai/rune#proc_blocks/modulo
modulo@0.3
./my-local-block
https://github.com/someone/repo@v1.2
~~~

## Things you can try:
- Check the offending substring named in the error message
- Make sure the version comes before the sub path:
  base@version#sub_path, not base#sub_path@version`,
	}

	danglingReferenceIssue = &Issue{
		id: DanglingReferenceId,
		mdMsg: `
# RUN references an undefined stage!

Every name in a RUN instruction must match a declared CAPABILITY,
PROC_BLOCK, or MODEL stage.

## Things you can try:
- Check the stage name for typos
- Declare the stage before referencing it:
~~~
CAPABILITY<f32[1]> RAND rand
RUN rand
~~~`,
	}

	duplicateStageIssue = &Issue{
		id: DuplicateStageId,
		mdMsg: `
# Duplicate stage name!

Two stages declare the same name. Stage names identify pipeline nodes, so
they must be unique; a later declaration never shadows an earlier one.

## Things you can try:
- Rename one of the stages
- Remove the redundant declaration`,
	}

	conflictingDependencyIssue = &Issue{
		id: ConflictingDependencyId,
		mdMsg: `
# Conflicting dependency resolutions!

Two references resolve the same crate to different sources. A compile pins
each crate to exactly one source.

## Things you can try:
- Make both references point at the same source
- Check the two resolutions named in the error message above`,
	}

	invalidStageTypeIssue = &Issue{
		id: InvalidStageTypeId,
		mdMsg: `
# Invalid stage type annotation!

A buffer type annotation uses an element type the shape model doesn't know.

## Known element types:
u8, i8, u16, i16, u32, i32, f32, u64, i64, f64, utf8

## Example:
~~~
CAPABILITY<f32[1]> RAND rand
MODEL<f32[1],f32[1]> ./sinemodel.tflite sine
~~~`,
	}

	modelFileNotFoundIssue = &Issue{
		id: ModelFileNotFoundId,
		mdMsg: `
# Model file not found!

A MODEL instruction references a file that doesn't exist next to the
Runefile.

## Things you can try:
- Check the file path for typos
- Model paths are resolved relative to the Runefile's directory:
~~~
MODEL<f32[1],f32[1]> ./sinemodel.tflite sine
~~~`,
	}

	artifactWriteFailedIssue = &Issue{
		id: ArtifactWriteFailedId,
		mdMsg: `
# Failed to write the build unit!

The compile succeeded but publishing the generated files failed. Publishing
is transactional, so no partial output was left behind.

## Common causes:
- The output directory is not writable
- The disk is full

## Things you can try:
- Check permissions on the output directory
- Point the build somewhere writable:
~~~
$ runec build --output /tmp/runes Runefile
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the runec configuration file.

## Configuration file locations:
- Linux: ~/.config/runec/config.toml
- macOS: ~/Library/Application Support/runec/config.toml
- Windows: %APPDATA%\runec\config.toml

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/runec/config.toml
~~~

## Example configuration:
~~~toml
output_dir = "/home/user/.rune/runes"
verbose = false
~~~`,
	}

	issues = map[Id]*Issue{
		runefileNotFoundIssue.Id():      runefileNotFoundIssue,
		syntaxErrorIssue.Id():           syntaxErrorIssue,
		pathFormatErrorIssue.Id():       pathFormatErrorIssue,
		danglingReferenceIssue.Id():     danglingReferenceIssue,
		duplicateStageIssue.Id():        duplicateStageIssue,
		conflictingDependencyIssue.Id(): conflictingDependencyIssue,
		invalidStageTypeIssue.Id():      invalidStageTypeIssue,
		modelFileNotFoundIssue.Id():     modelFileNotFoundIssue,
		artifactWriteFailedIssue.Id():   artifactWriteFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
