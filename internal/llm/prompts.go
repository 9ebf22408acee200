package llm

import (
	_ "embed"
	"strings"
	"text/template"
)

// ScriptPromptVersion identifies the embedded script template.
const ScriptPromptVersion = "script_v1"

// ScriptSystemPrompt is sent as the system message for script requests.
const ScriptSystemPrompt = "You are a short-form video scriptwriter. Respond with JSON only. Output must match the schema exactly."

// FixJSONSystemPrompt is used for the single repair attempt after an invalid response.
const FixJSONSystemPrompt = "You are a JSON repair tool. Return only valid JSON that matches the schema exactly."

//go:embed prompts/script_v1.txt
var scriptV1 string

var scriptTemplate = template.Must(template.New(ScriptPromptVersion).
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(scriptV1))

// BuildScriptPrompt renders the user message for a script request.
func BuildScriptPrompt(input ScriptInput) (string, error) {
	var b strings.Builder
	data := struct {
		ScriptInput
		MaxScenes int
	}{ScriptInput: input, MaxScenes: MaxScenes}
	data.Prompt = strings.TrimSpace(data.Prompt)
	if err := scriptTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
