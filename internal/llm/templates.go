package llm

import "github.com/tmc/langchaingo/prompts"

// Template names one of the fixed prompt skeletons.
type Template string

const (
	TemplateFileAnalysis Template = "file_analysis"
	TemplateReadme       Template = "readme"
	TemplateAPIReference Template = "api_reference"
	TemplateArchitecture Template = "architecture"
)

var templates = map[Template]prompts.PromptTemplate{
	TemplateFileAnalysis: {
		Template: `Analyze the following code and provide comprehensive documentation:

File: {{.fileName}}

Code:
{{.fileContent}}

Provide:
1. Overview: Brief description of the file's purpose
2. Main Components: Key functions/classes and their purposes
3. Dependencies: Important external dependencies
4. Examples: Usage examples where applicable
5. Technical Details: Any important implementation details

Format the response in markdown.`,
		InputVariables: []string{"fileName", "fileContent"},
		TemplateFormat: prompts.TemplateFormatGoTemplate,
	},
	TemplateReadme: {
		Template: `You are given per-file documentation for a software repository:

{{.documentation}}

Write a complete README for this repository. Include:
1. Project title and a one-paragraph description
2. Key features
3. Installation instructions
4. Usage examples
5. Project structure overview

Format the response in markdown. Do not invent features that the
documentation does not support.`,
		InputVariables: []string{"documentation"},
		TemplateFormat: prompts.TemplateFormatGoTemplate,
	},
	TemplateAPIReference: {
		Template: `You are given per-file documentation for a software repository:

{{.documentation}}

Extract the public API surface: exported functions, types, endpoints and
their parameters. Present it as a markdown reference grouped by file.
List only what appears in the documentation.`,
		InputVariables: []string{"documentation"},
		TemplateFormat: prompts.TemplateFormatGoTemplate,
	},
	TemplateArchitecture: {
		Template: `You are given per-file documentation for a software repository:

{{.documentation}}

Produce a mermaid diagram describing the high-level architecture:
components and the relationships between them. Respond with a single
fenced code block starting with ` + "```mermaid" + ` and nothing else.`,
		InputVariables: []string{"documentation"},
		TemplateFormat: prompts.TemplateFormatGoTemplate,
	},
}

// RenderTemplate substitutes vars into the named template. Exposed for the
// client and for tests; callers normally go through Client.Invoke.
func RenderTemplate(tmpl Template, vars map[string]string) (string, error) {
	pt, ok := templates[tmpl]
	if !ok {
		return "", &GenerationError{Template: tmpl, Err: ErrUnknownTemplate}
	}
	values := make(map[string]any, len(vars))
	for k, v := range vars {
		values[k] = v
	}
	out, err := pt.Format(values)
	if err != nil {
		return "", &GenerationError{Template: tmpl, Err: err}
	}
	return out, nil
}
