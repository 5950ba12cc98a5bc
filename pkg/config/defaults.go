package config

const (
	defaultAPIListen = ":8081"

	defaultAgentProvider = "groq"
	defaultAgentModel    = "openai/gpt-oss-120b"

	defaultTemperature    = 1.0
	defaultMaxTokens      = 8192
	defaultTopP           = 1.0
	defaultTimeoutSeconds = 30
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			SQLitePath: "", // in-memory
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Agent: AgentConfig{
			Provider:       defaultAgentProvider,
			Model:          defaultAgentModel,
			Temperature:    defaultTemperature,
			MaxTokens:      defaultMaxTokens,
			TopP:           defaultTopP,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
	}
}
