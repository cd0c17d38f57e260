package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validMeta = `{
  "name": "ClickHouse Best Practices",
  "version": "1.2.3",
  "organization": "ClickHouse",
  "abstract": "Curated rules.",
  "sections": [
    {"name": "Schema Design", "prefix": "schema-", "impact": "high", "rank": 1}
  ]
}`

func TestValidateSkillMeta_Valid(t *testing.T) {
	assert.NoError(t, ValidateSkillMeta(validMeta))
}

func TestValidateSkillMeta_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"missing version", `{"name": "x", "sections": [{"name": "s", "prefix": "p", "impact": "low", "rank": 1}]}`},
		{"bad version format", `{"name": "x", "version": "1.2", "sections": [{"name": "s", "prefix": "p", "impact": "low", "rank": 1}]}`},
		{"bad impact", `{"name": "x", "version": "1.0.0", "sections": [{"name": "s", "prefix": "p", "impact": "URGENT", "rank": 1}]}`},
		{"empty sections", `{"name": "x", "version": "1.0.0", "sections": []}`},
		{"rank below one", `{"name": "x", "version": "1.0.0", "sections": [{"name": "s", "prefix": "p", "impact": "low", "rank": 0}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSkillMeta(tc.json)
			require.Error(t, err)
			assert.IsType(t, &ValidationError{}, err)
		})
	}
}

func TestValidateSkillMeta_UnparsableDocument(t *testing.T) {
	err := ValidateSkillMeta(`{"broken":`)
	require.Error(t, err)
	assert.IsType(t, &SchemaLoadError{}, err)
}
