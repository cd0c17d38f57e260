// Package compile deterministically assembles validated rules into the
// compiled reference document.
package compile

import (
	"encoding/json"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/chskill/skillcheck/internal/schemas"
	"github.com/chskill/skillcheck/internal/types"
)

var validate = validator.New()

// LoadMeta reads and validates the skill metadata file: JSON Schema first
// for shape, then struct-level validation for field constraints.
func LoadMeta(path string) (*types.SkillMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &MetaError{Path: path, Message: "failed to read metadata file", Cause: err}
	}

	if err := schemas.ValidateSkillMeta(string(data)); err != nil {
		return nil, &MetaError{Path: path, Message: "metadata does not match schema", Cause: err}
	}

	var meta types.SkillMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, &MetaError{Path: path, Message: "failed to parse metadata JSON", Cause: err}
	}

	if err := validate.Struct(&meta); err != nil {
		return nil, &MetaError{Path: path, Message: "metadata failed validation", Cause: err}
	}

	return &meta, nil
}

// SaveMeta persists metadata back to disk. Used by the version bump path,
// the single writer of skill metadata.
func SaveMeta(path string, meta *types.SkillMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return &MetaError{Path: path, Message: "failed to marshal metadata", Cause: err}
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return &MetaError{Path: path, Message: "failed to write metadata file", Cause: err}
	}
	return nil
}
