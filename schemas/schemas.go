// Package schemas embeds the JSON Schema documents used to validate
// project configuration files.
package schemas

import _ "embed"

// ConfigSchemaJSON is the JSON Schema for .crossfail.yaml files.
//
//go:embed crossfail.schema.json
var ConfigSchemaJSON string
