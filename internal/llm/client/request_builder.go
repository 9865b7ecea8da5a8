package client

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"promptstudio/internal/models"
)

const referenceInstruction = "Use the following saved templates as creative inspiration for tone, pacing and composition. Do not copy them verbatim."

// BuildUserPrompt assembles the text body of an enhancement request:
// reference block (when any references resolved), configuration footer,
// then the literal user idea last.
func BuildUserPrompt(input models.GenerationInput, references []models.PromptTemplate) string {
	var b strings.Builder

	if len(references) > 0 {
		b.WriteString(referenceInstruction)
		b.WriteString("\n\n")
		for i, ref := range references {
			if i > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "REFERENCE TEMPLATE: %s\n%s", ref.Title, ref.Prompt)
		}
		b.WriteString("\n\n")
	}

	cfg := input.Config
	b.WriteString("--- OUTPUT CONFIGURATION ---\n")
	fmt.Fprintf(&b, "Style: %s\n", cfg.Style)
	fmt.Fprintf(&b, "JSON output: %t\n", cfg.JSONMode)
	fmt.Fprintf(&b, "Long scene script (MARS-LSP): %t\n", cfg.MarsLSP)
	fmt.Fprintf(&b, "High reasoning effort: %t\n", cfg.Reasoning)
	// Length only steers JSON and long-scene output; the plain single-shot
	// mode has no meaningful length control.
	if cfg.JSONMode || cfg.MarsLSP {
		fmt.Fprintf(&b, "Length: %s\n", cfg.Length)
	}
	b.WriteString("\n--- USER IDEA ---\n")
	b.WriteString(input.Prompt)

	return b.String()
}

// BuildMessages composes the full outbound request: the fixed system
// instruction followed by one user message carrying the assembled prompt
// and, when present, the media attachment as an inline data URL part.
func BuildMessages(input models.GenerationInput, references []models.PromptTemplate) []*schema.Message {
	body := BuildUserPrompt(input, references)

	if input.Media == nil || input.Media.Data == "" {
		return []*schema.Message{
			schema.SystemMessage(SystemPrompt()),
			schema.UserMessage(body),
		}
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", input.Media.MIMEType, input.Media.Data)
	mediaPart := schema.ChatMessagePart{
		Type: schema.ChatMessagePartTypeImageURL,
		ImageURL: &schema.ChatMessageImageURL{
			URL:      dataURL,
			MIMEType: input.Media.MIMEType,
		},
	}
	if strings.HasPrefix(input.Media.MIMEType, "video/") {
		mediaPart = schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeVideoURL,
			VideoURL: &schema.ChatMessageVideoURL{
				URL:      dataURL,
				MIMEType: input.Media.MIMEType,
			},
		}
	}

	return []*schema.Message{
		schema.SystemMessage(SystemPrompt()),
		{
			Role: schema.User,
			MultiContent: []schema.ChatMessagePart{
				mediaPart,
				{Type: schema.ChatMessagePartTypeText, Text: body},
			},
		},
	}
}
