package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed content.schema.json
var contentSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(contentSchema)

// ValidateJSON validates a raw content document against content.schema.json.
func ValidateJSON(raw []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

// DecodeContent validates raw and unmarshals it into a Content.
func DecodeContent(raw []byte) (Content, error) {
	if err := ValidateJSON(raw); err != nil {
		return Content{}, err
	}
	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return Content{}, err
	}
	return c, nil
}
