// Package links checks internal cross-references and external URLs across
// the skill tree.
package links

import (
	"encoding/json"
	"regexp"
	"strings"
)

// maxJSONDepth bounds the recursive JSON value walk. Typical skill
// metadata is shallow; the ceiling guards against pathological nesting.
const maxJSONDepth = 32

var linkPattern = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)\)`)

// ExtractMarkdownLinks returns every markdown link target in document order.
func ExtractMarkdownLinks(content string) []string {
	var targets []string
	for _, m := range linkPattern.FindAllStringSubmatch(content, -1) {
		targets = append(targets, m[1])
	}
	return targets
}

// IsExternal reports whether a link target is an absolute HTTP(S) URL.
func IsExternal(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// ExtractJSONURLs parses data as JSON and collects every string value that
// is an absolute HTTP(S) URL, recursing through objects and arrays up to
// maxJSONDepth.
func ExtractJSONURLs(data []byte) ([]string, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	var urls []string
	walkJSON(root, 0, &urls)
	return urls, nil
}

func walkJSON(value any, depth int, urls *[]string) {
	if depth > maxJSONDepth {
		return
	}
	switch v := value.(type) {
	case string:
		if IsExternal(v) {
			*urls = append(*urls, v)
		}
	case []any:
		for _, item := range v {
			walkJSON(item, depth+1, urls)
		}
	case map[string]any:
		for _, item := range v {
			walkJSON(item, depth+1, urls)
		}
	}
}
