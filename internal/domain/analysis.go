package domain

// InstructionType classifies what kind of instruction the analysis found.
type InstructionType string

const (
	InstructionProcedureChange InstructionType = "procedure_change"
	InstructionNewProcedure    InstructionType = "new_procedure"
	InstructionGeneralInfo     InstructionType = "general_info"
)

// Analysis is the result of the analyze call. Produced fresh per call and
// folded into the suggestion metadata, never persisted on its own.
type Analysis struct {
	HasInstructions bool            `json:"has_instructions"`
	Instructions    string          `json:"instructions"`
	Category        string          `json:"category"`
	Keywords        []string        `json:"topic_keywords"`
	Type            InstructionType `json:"instruction_type"`
	Confidence      float64         `json:"confidence"`
	Reasoning       string          `json:"reasoning"`
}

// MinConfidence gates the pipeline: analyses below it produce no suggestion.
const MinConfidence = 0.5

// Actionable reports whether the analysis clears the confidence gate.
func (a Analysis) Actionable() bool {
	return a.HasInstructions && a.Confidence >= MinConfidence
}

// Match is the result of the match call, or nil when matching failed or was
// skipped; the pipeline then falls back to creating a new article.
type Match struct {
	Action             SuggestionType `json:"action"`
	MatchedArticleID   *int64         `json:"matched_article_id"`
	MatchedArticleName string         `json:"matched_article_name"`
	Confidence         float64        `json:"confidence"`
	Reasoning          string         `json:"reasoning"`
}

// GeneratedContent is the result of the generate call.
type GeneratedContent struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Summary  string   `json:"summary"`
	Sections []string `json:"sections"`
}
