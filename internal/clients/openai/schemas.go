package openai

import "github.com/sashabaranov/go-openai/jsonschema"

func questionListSchema() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Array,
		Items: &jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"text": {Type: jsonschema.String},
			},
			Required:             []string{"text"},
			AdditionalProperties: false,
		},
	}
}

func questionPoolSchema() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"easy":   questionListSchema(),
			"medium": questionListSchema(),
			"hard":   questionListSchema(),
		},
		Required:             []string{"easy", "medium", "hard"},
		AdditionalProperties: false,
	}
}

func evaluationSchema() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"score":            {Type: jsonschema.Number, Description: "0 to 10"},
			"flagged_concerns": {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
			"rationale":        {Type: jsonschema.String},
		},
		Required:             []string{"score", "flagged_concerns", "rationale"},
		AdditionalProperties: false,
	}
}

var verdicts = []string{"likely_ai", "likely_human", "uncertain"}

func detectionSchema() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"overall_result":     {Type: jsonschema.String, Enum: verdicts},
			"overall_confidence": {Type: jsonschema.Number, Description: "0 to 100"},
			"sections": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"slide_index": {Type: jsonschema.Integer},
						"result":      {Type: jsonschema.String, Enum: verdicts},
						"confidence":  {Type: jsonschema.Number},
						"reason":      {Type: jsonschema.String},
					},
					Required:             []string{"slide_index", "result", "confidence", "reason"},
					AdditionalProperties: false,
				},
			},
			"summary": {Type: jsonschema.String},
		},
		Required:             []string{"overall_result", "overall_confidence", "sections", "summary"},
		AdditionalProperties: false,
	}
}
