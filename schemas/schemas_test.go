package schemas_test

import (
	"encoding/json"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalschemas "github.com/jonathan/hireo/internal/schemas"
	"github.com/jonathan/hireo/schemas"
)

var schemaFiles = []string{
	schemas.Profile,
	schemas.Settings,
	schemas.CoverLetter,
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var v map[string]any
			assert.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON: %s", schemaFile)
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", v["$schema"])
			assert.Equal(t, "object", v["type"])
		})
	}
}

func TestEmbeddedMatchesFiles(t *testing.T) {
	embedded, err := fs.Glob(schemas.FS, "*.schema.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, schemaFiles, embedded)

	for _, name := range embedded {
		onDisk, err := os.ReadFile(name)
		require.NoError(t, err)
		inFS, err := schemas.FS.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, onDisk, inFS)
	}
}

func TestSchemasAcceptEmptyDocument(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err)
			assert.NoError(t, internalschemas.ValidateJSONString(string(data), `{}`))
		})
	}
}
