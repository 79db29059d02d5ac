package llms

// Turn is one completed prompt/response exchange kept as conversation
// history for subsequent prompts.
type Turn struct {
	Prompt   string
	Response string
}

// PromptOptions contains the options shared by all prompting clients.
type PromptOptions struct {
	Instructions string
	Turns        []Turn
	Temperature  *float64
	MaxTokens    *int
}

// PromptOption is a function that can be used to modify the prompt options.
type PromptOption func(*PromptOptions)

// WithSystemPrompt sets the system prompt. Repeating this option overwrites
// the previous system prompt.
func WithSystemPrompt(prompt string) PromptOption {
	return func(opts *PromptOptions) {
		opts.Instructions = prompt
	}
}

// WithHistory sets the prior conversation turns sent alongside the prompt.
func WithHistory(turns []Turn) PromptOption {
	return func(opts *PromptOptions) {
		opts.Turns = turns
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) PromptOption {
	return func(opts *PromptOptions) {
		opts.Temperature = &temperature
	}
}

// WithMaxTokens caps the generated response length.
func WithMaxTokens(maxTokens int) PromptOption {
	return func(opts *PromptOptions) {
		opts.MaxTokens = &maxTokens
	}
}
