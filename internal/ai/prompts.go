package ai

import (
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the hosted model used unless configured otherwise.
const DefaultModel = "gemini-2.5-flash"

const (
	// UnavailableFallback replaces any summarization failure.
	UnavailableFallback = "AI service temporarily unavailable."

	// NoInsightsFallback replaces an empty summarization response.
	NoInsightsFallback = "Unable to generate insights at this time."
)

func extractPrompt(text string) string {
	return fmt.Sprintf(`Extract invoice line items from the following description.
If quantity is not specified, assume 1.
If price is not specified, estimate a reasonable professional rate or set to 0.

Description: %q`, text)
}

func summaryPrompt(summary string) string {
	return fmt.Sprintf(`You are a financial analyst. Analyze this invoice data summary and give 3 short, punchy, actionable insights for the business owner to improve cash flow or business health. Keep it under 100 words total.

Data: %s`, summary)
}

// lineItemSchema constrains extraction output to
// [{description: string, quantity: number, price: number}], all required.
func lineItemSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"description": {Type: genai.TypeString},
				"quantity":    {Type: genai.TypeNumber},
				"price":       {Type: genai.TypeNumber},
			},
			Required: []string{"description", "quantity", "price"},
		},
	}
}

func extractConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   lineItemSchema(),
	}
}
