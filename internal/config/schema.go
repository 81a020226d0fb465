package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SectionName is the manifest key holding easytag options.
const SectionName = "easytag"

// sectionSchema describes the `easytag` object accepted in the manifest.
const sectionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "masterFormat":  { "type": "string", "minLength": 1 },
    "branchFormat":  { "type": "string", "minLength": 1 },
    "noPush":        { "type": "boolean" },
    "remote":        { "type": "string", "minLength": 1 },
    "annotate":      { "type": "boolean" },
    "githubRelease": { "type": "boolean" }
  }
}`

var sectionSchemaLoader = gojsonschema.NewStringLoader(sectionSchema)

// LoadFromManifestSection validates the raw JSON of the manifest's easytag
// section against its schema and decodes it.
func LoadFromManifestSection(raw []byte) (*Config, error) {
	result, err := gojsonschema.Validate(sectionSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validating %s section: %w", SectionName, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.New("invalid " + SectionName + " section: " + strings.Join(msgs, "; "))
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s section: %w", SectionName, err)
	}
	return &cfg, nil
}
