// Package rules provides parsing and discovery of best-practice rule files.
package rules

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/chskill/skillcheck/internal/types"
)

// RuleSet is the result of loading a rule directory: the rules that parsed
// cleanly plus the per-file parse errors. Parse errors never abort the batch.
type RuleSet struct {
	Rules       []*types.Rule
	ParseErrors []*ParseError
	Files       []string // All discovered rule filenames (basenames), sorted
}

// Discover returns the rule file paths under dir, sorted by filename.
// Files whose name begins with an underscore are templates and skipped.
func Discover(dir string) ([]string, error) {
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, "*.md")
	if err != nil {
		return nil, &DiscoveryError{Dir: dir, Message: "glob failed", Cause: err}
	}

	var paths []string
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), "_") {
			continue
		}
		paths = append(paths, filepath.Join(dir, m))
	}
	sort.Strings(paths)
	return paths, nil
}

// Load discovers and parses every rule file under dir.
func Load(dir string) (*RuleSet, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	set := &RuleSet{}
	for _, path := range paths {
		set.Files = append(set.Files, filepath.Base(path))

		content, err := os.ReadFile(path)
		if err != nil {
			set.ParseErrors = append(set.ParseErrors, &ParseError{
				File:    filepath.Base(path),
				Message: "failed to read file",
				Cause:   err,
			})
			continue
		}

		rule, err := Parse(path, content)
		if err != nil {
			var parseErr *ParseError
			if pe, ok := err.(*ParseError); ok {
				parseErr = pe
			} else {
				parseErr = &ParseError{File: filepath.Base(path), Message: err.Error()}
			}
			set.ParseErrors = append(set.ParseErrors, parseErr)
			continue
		}
		set.Rules = append(set.Rules, rule)
	}

	return set, nil
}
