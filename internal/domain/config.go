package domain

// KeyPrefix namespaces every key the service writes to the key-value store.
const KeyPrefix = "expertdesk:"

// FallbackAnswer is returned in place of a generated answer when the provider fails or times out.
const FallbackAnswer = "I apologize, but I'm unable to provide a detailed answer at the moment. " +
	"Please try again later or contact a climate science expert directly."

// AnswerConfig holds answer generation settings, not exposed to clients.
type AnswerConfig struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// DefaultAnswerConfig returns the chat completion settings used when nothing is configured.
func DefaultAnswerConfig() AnswerConfig {
	return AnswerConfig{
		Model:       "gpt-3.5-turbo",
		MaxTokens:   500,
		Temperature: 0.7,
	}
}
