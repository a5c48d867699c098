// Package schemas holds the JSON Schemas of the documents hireo accepts.
package schemas

import "embed"

// FS contains every *.schema.json file of this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names.
const (
	Profile     = "profile.schema.json"
	Settings    = "settings.schema.json"
	CoverLetter = "cover_letter.schema.json"
)
