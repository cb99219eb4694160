// Package spec embeds the gateway's OpenAPI document.
package spec

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
