package ai

import "fmt"

const classifyPromptTemplate = `
You are an AI complaint analyst for a complaint management system.
Analyze the following complaint and return ONLY valid JSON with these exact fields:

- "category": A short label (e.g., "IT", "Maintenance", "HR", "Finance", "Security", "Facilities", "Other")
- "priority": One of "LOW", "MEDIUM", "HIGH", "CRITICAL"
- "sentiment": One of "ANGRY", "NEUTRAL", "CALM"

Rules for priority:
- CRITICAL: Safety hazards, security breaches, service outages
- HIGH: Significant disruptions, repeated issues, urgent requests
- MEDIUM: Standard complaints, moderate impact
- LOW: Minor inconveniences, suggestions, general feedback

Complaint:
"""
%s
"""

Respond with ONLY the JSON object. No markdown, no explanation.
`

const suggestionPromptTemplate = `
You are an AI assistant for a complaint management system.
You have access to a knowledge base of previous solutions.

Based on these previous solutions:
---
%s
---

Suggest a clear, step-by-step fix for this new problem:
"""
%s
"""

Requirements:
- Provide actionable steps numbered 1, 2, 3, etc.
- Reference relevant past solutions if applicable.
- If no past solutions are relevant, provide your best recommendation.
- Keep the response professional and concise.
`

// ClassifyPrompt builds the classification prompt for a complaint.
func ClassifyPrompt(description string) string {
	return fmt.Sprintf(classifyPromptTemplate, description)
}

// SuggestionPrompt builds the remediation prompt from retrieved context.
func SuggestionPrompt(context, description string) string {
	return fmt.Sprintf(suggestionPromptTemplate, context, description)
}
