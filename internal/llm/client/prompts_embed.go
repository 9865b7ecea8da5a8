package client

import "embed"

// embeddedPrompts holds the built-in system instructions so packaged
// executables can load them without needing access to the source tree.
//
//go:embed prompts/*.txt
var embeddedPrompts embed.FS

func mustPrompt(name string) string {
	data, err := embeddedPrompts.ReadFile("prompts/" + name)
	if err != nil {
		panic("missing embedded prompt " + name + ": " + err.Error())
	}
	return string(data)
}

// SystemPrompt is the fixed instruction block prepended to every
// enhancement request.
func SystemPrompt() string {
	return mustPrompt("system_prompt.txt")
}

// MetadataSystemPrompt is the instruction block for single and batch
// metadata requests.
func MetadataSystemPrompt() string {
	return mustPrompt("metadata_system_prompt.txt")
}
