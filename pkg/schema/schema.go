package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var ExtractedCharactersSchema = generateSchema[ExtractedCharacters]()

// ExtractionResponseFormat constrains the character-extraction call to the
// ExtractedCharacters shape via structured outputs.
func ExtractionResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "secondary_characters",
		Description: openai.String("Secondary characters extracted from a children's story"),
		Schema:      ExtractedCharactersSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
