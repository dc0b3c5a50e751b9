package llm

import (
	"encoding/json"
	"fmt"

	"NewsSuggester/internal/domain"
)

func analysisPrompt(title, content string) string {
	return fmt.Sprintf(`You are an AI assistant helping to analyze company news and extract actionable work instructions.

News Title: %s
News Content: %s

Your task:
1. Identify if this news contains actionable work instructions or procedure changes
2. Extract specific instructions (e.g., "Say Hello Mr" instead of "Good Morning Sir")
3. Determine the topic/category (e.g., phone procedures, customer service, etc.)
4. Assess if this relates to existing procedures (update) or new procedures (create)

Respond in JSON format:
{
  "has_instructions": true/false,
  "instructions": "extracted specific instructions",
  "category": "suggested category name",
  "topic_keywords": ["keyword1", "keyword2"],
  "instruction_type": "procedure_change" | "new_procedure" | "general_info",
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation of your analysis"
}`, title, content)
}

func matchingPrompt(instructions string, candidates []domain.CandidateArticle) string {
	articlesJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		articlesJSON = []byte("[]")
	}

	return fmt.Sprintf(`You are an AI assistant helping to match new instructions with existing knowledge base articles.

New Instructions: %s

Existing Knowledge Base Articles:
%s

Your task:
1. Find the most relevant existing article(s) that should be updated
2. Calculate confidence score for each match
3. Recommend whether to update existing article or create new one

Respond in JSON format:
{
  "action": "update" | "create",
  "matched_article_id": 123 (or null if create),
  "matched_article_name": "Article Name",
  "confidence": 0.0-1.0,
  "reasoning": "why this article matches or why new article needed"
}`, instructions, articlesJSON)
}

func generationPrompt(instructions, template, existingContent string) string {
	templateSection := ""
	if template != "" {
		templateSection = fmt.Sprintf("Use this template structure:\n%s\n\n", template)
	}

	existingSection := "This is a new article.\n\n"
	if existingContent != "" {
		existingSection = fmt.Sprintf("Existing Content to Update:\n%s\n\n", existingContent)
	}

	return fmt.Sprintf(`You are an AI assistant helping to create or update knowledge base articles (Wissensdatenbank).

Instructions to incorporate: %s

%s%s

Your task:
1. Generate a clear, professional title
2. Write comprehensive content following German medical practice standards
3. Structure the content clearly with sections if needed
4. Ensure the specific instructions are clearly highlighted
5. If updating: integrate new instructions while preserving relevant existing content

Respond in JSON format:
{
  "title": "Suggested Article Title",
  "content": "Full article content in HTML format",
  "summary": "Brief summary of changes made",
  "sections": ["Section 1", "Section 2"]
}`, instructions, templateSection, existingSection)
}
