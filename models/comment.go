package models

// DefaultConfidence 는 모델이 confidence 를 주지 않았을 때 쓰는 값이다.
const DefaultConfidence = 0.5

type GeneratedComment struct {
	Text            string  `json:"comment"`
	Style           Style   `json:"style"`
	ImagePromptSeed string  `json:"image_prompt"`
	ConfidenceScore float64 `json:"confidence"`
	ImageURL        string  `json:"image_url,omitempty"`
}
