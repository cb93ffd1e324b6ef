package config

type AI string

const (
	AIGemini AI = "gemini"
	AIGroq   AI = "groq"
)

type Model string

const (
	ModelGemini20FlashExp Model = "gemini-2.0-flash-exp"
	ModelGemini20Flash    Model = "gemini-2.0-flash"
	ModelGeminiV25Flash   Model = "gemini-2.5-flash"

	ModelLlama33Versatile Model = "llama-3.3-70b-versatile"
	ModelLlama31Instant   Model = "llama-3.1-8b-instant"
)

func SupportedAIs() []AI {
	return []AI{
		AIGemini,
		AIGroq,
	}
}

func ModelsForAI(ai AI) []Model {
	switch ai {
	case AIGemini:
		return []Model{
			ModelGemini20FlashExp,
			ModelGemini20Flash,
			ModelGeminiV25Flash,
		}
	case AIGroq:
		return []Model{
			ModelLlama33Versatile,
			ModelLlama31Instant,
		}
	default:
		return []Model{}
	}
}

func DefaultModelForAI(ai AI) Model {
	models := ModelsForAI(ai)
	if len(models) == 0 {
		return ""
	}
	return models[0]
}

// APIKeyEnvVar returns the environment variable holding the key for ai.
func APIKeyEnvVar(ai AI) string {
	switch ai {
	case AIGemini:
		return "GEMINI_API_KEY"
	case AIGroq:
		return "GROQ_API_KEY"
	default:
		return ""
	}
}
