package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the embedded default
	// or an error when none exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptChatSystem is the system prompt for hosted chat replies.
	// This prompt has no format placeholders.
	PromptChatSystem = "chat_system"
)

// DefaultChatSystemPrompt is the built-in PromptChatSystem text.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultChatSystemPrompt = `You are the assistant of an AI tools directory. You help people find AI platforms that fit their project.

Rules:
- Recommend at most 3 platforms in a reply.
- Only recommend platforms from the candidate list included with the user's message.
- Never invent or mention platforms that are not in that list. If none fit, say so and ask about the user's project.
- Mention the pricing of each platform you recommend.
- If the user wants to list their own platform, point them to the submission page.
- Keep replies short and friendly.`
