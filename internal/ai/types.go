package ai

// Outcome is the result of a best-effort call. When Fallback is set, Value
// holds the substitute and Cause the error that forced it.
type Outcome[T any] struct {
	Value    T
	Fallback bool
	Cause    error
}

func ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

func fallback[T any](v T, cause error) Outcome[T] {
	return Outcome[T]{Value: v, Fallback: true, Cause: cause}
}

// Gemini generateContent wire types.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

// moodJSON is the shape the model is asked to answer with.
type moodJSON struct {
	Mood       string   `json:"mood"`
	Confidence *float64 `json:"confidence"`
	Keywords   []string `json:"keywords"`
}
