package domain

// KnowledgeArticle is the canonical published procedure document the
// pipeline ultimately writes to.
type KnowledgeArticle struct {
	ID          int64
	Name        string
	Description string
	CategoryID  *int64
}

// Category groups knowledge articles; resolved by exact name on apply.
type Category struct {
	ID   int64
	Name string
}

// CandidateArticle is the trimmed projection handed to the AI for matching:
// id, name, and a short plain-text excerpt of the description.
type CandidateArticle struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
