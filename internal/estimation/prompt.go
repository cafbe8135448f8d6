package estimation

import "google.golang.org/genai"

const mealAnalysisPrompt = "Analyze the following meal image and provide a structured breakdown of the food items and their estimated macros. " +
	"Name the meal as a whole, describe it in one to three sentences, and estimate calories (kcal) and protein, fat and carbohydrates (grams) " +
	"for the entire visible portion, not per item or per 100 g."

// foodDraftSchema constrains the model output to the draft document.
func foodDraftSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"food_name": {
				Type:        genai.TypeString,
				Description: "Short descriptive name of the meal.",
			},
			"description": {
				Type:        genai.TypeString,
				Description: "One to three sentences describing the meal.",
				Nullable:    genai.Ptr(true),
			},
			"calories":      macroSchema("Total energy in kcal."),
			"protein":       macroSchema("Total protein in grams."),
			"fat":           macroSchema("Total fat in grams."),
			"carbohydrates": macroSchema("Total carbohydrates in grams."),
		},
		PropertyOrdering: []string{"food_name", "description", "calories", "protein", "fat", "carbohydrates"},
		Required:         []string{"food_name", "calories", "protein", "fat", "carbohydrates"},
	}
}

func macroSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeNumber,
		Description: description,
		Minimum:     genai.Ptr(0.0),
	}
}
