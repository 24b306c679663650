package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/protalker/protalker/cmd"
)

func main() {
	schema := buildSchema()

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	if err := os.WriteFile("protalker.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated protalker schema at protalker.schema.json")
}

// buildSchema reflects the 'protalker' config extension.
func buildSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&cmd.ProtalkerConfig{})
	schema.Title = "ProTalker Configuration"
	schema.Description = "Schema for the 'protalker' extension in grove.yml."

	// Every field has a default.
	schema.Required = nil
	return schema
}
