// Package links checks internal cross-references and external URLs across
// the skill tree.
package links

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chskill/skillcheck/internal/rules"
	"github.com/chskill/skillcheck/internal/types"
)

// fileExtensions are the link suffixes treated as file references that
// must resolve against the rule set.
var fileExtensions = []string{".md", ".json", ".sql", ".txt", ".yaml", ".yml", ".csv"}

// CheckInternal verifies that every relative (non-HTTP) link in the rule
// directory resolves to a real file in the rule set. Anchor-only links are
// checked best-effort: standard section anchors never hard-fail, since the
// anchor scheme of the compiled document is generated, not hand-written.
func CheckInternal(dir string) (*types.Violations, error) {
	paths, err := rules.Discover(dir)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(paths))
	for _, p := range paths {
		known[filepath.Base(p)] = true
	}

	var all []types.Violation
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			all = append(all, types.Violation{
				Type:     types.ViolationBrokenLink,
				Severity: "error",
				Details:  fmt.Sprintf("failed to read file: %v", err),
				File:     filepath.Base(path),
			})
			continue
		}

		for _, target := range ExtractMarkdownLinks(string(content)) {
			if IsExternal(target) {
				continue
			}
			if v, ok := checkTarget(target, known); ok {
				v.File = filepath.Base(path)
				all = append(all, v)
			}
		}
	}

	return &types.Violations{Violations: all}, nil
}

// checkTarget classifies one internal link target. Returns a violation and
// true when the target is broken.
func checkTarget(target string, known map[string]bool) (types.Violation, bool) {
	// Anchor-only links use the generated section numbering; a strict
	// check against source headings would be wrong more often than right.
	if strings.HasPrefix(target, "#") {
		return types.Violation{}, false
	}

	// Strip any trailing anchor from a file link.
	file := target
	if idx := strings.Index(file, "#"); idx >= 0 {
		file = file[:idx]
	}

	if !hasFileExtension(file) {
		return types.Violation{}, false
	}

	if !known[filepath.Base(file)] {
		return types.Violation{
			Type:     types.ViolationBrokenLink,
			Severity: "error",
			Details:  fmt.Sprintf("link target %q does not resolve to any rule file", target),
		}, true
	}
	return types.Violation{}, false
}

func hasFileExtension(target string) bool {
	ext := strings.ToLower(filepath.Ext(target))
	for _, known := range fileExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
