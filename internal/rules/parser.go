// Package rules provides parsing and discovery of best-practice rule files.
package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chskill/skillcheck/internal/types"
)

// frontmatter holds the recognized metadata keys of a rule file.
type frontmatter struct {
	Title             string   `yaml:"title"`
	Impact            string   `yaml:"impact"`
	ImpactDescription string   `yaml:"impactDescription"`
	Tags              yamlTags `yaml:"tags"`
	Reference         string   `yaml:"reference"`
}

// yamlTags accepts tags declared either as a YAML list or as a single
// comma-separated string.
type yamlTags []string

func (t *yamlTags) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				*t = append(*t, part)
			}
		}
		return nil
	default:
		return fmt.Errorf("tags must be a list or a comma-separated string")
	}
}

var (
	headingPattern   = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	// The colon may sit inside or outside the bold markers.
	boldLabelPattern = regexp.MustCompile(`^\*\*(.+?):?\*\*:?\s*$`)
	fencePattern     = regexp.MustCompile("^```([A-Za-z0-9_+-]*)\\s*$")
)

// Parse turns one rule file's raw text into a Rule record.
// The rule ID is derived from the filename. Frontmatter values take
// precedence over values inferred from the body. A malformed frontmatter
// block yields a ParseError for this file only.
func Parse(filename string, content []byte) (*types.Rule, error) {
	base := filepath.Base(filename)
	rule := &types.Rule{
		ID:   strings.TrimSuffix(base, filepath.Ext(base)),
		File: base,
	}

	body := string(content)
	if strings.HasPrefix(body, "---\n") || strings.HasPrefix(body, "---\r\n") {
		fm, rest, err := splitFrontmatter(body)
		if err != nil {
			return nil, &ParseError{File: base, Message: "malformed frontmatter", Cause: err}
		}
		var meta frontmatter
		if err := yaml.Unmarshal([]byte(fm), &meta); err != nil {
			return nil, &ParseError{File: base, Message: "malformed frontmatter", Cause: err}
		}
		rule.Title = strings.TrimSpace(meta.Title)
		rule.ImpactDescription = strings.TrimSpace(meta.ImpactDescription)
		rule.Tags = meta.Tags
		rule.Reference = strings.TrimSpace(meta.Reference)
		if meta.Impact != "" {
			// Keep the raw value when it is not a valid level; the
			// structural validator reports it with context.
			if impact, ok := types.ParseImpact(meta.Impact); ok {
				rule.Impact = impact
			} else {
				rule.Impact = types.Impact(strings.TrimSpace(meta.Impact))
			}
		}
		body = rest
	}

	parseBody(rule, body)

	if rule.Title == "" {
		return nil, &ParseError{File: base, Message: "no title found in frontmatter or body"}
	}

	return rule, nil
}

// splitFrontmatter separates the leading "---" delimited block from the
// body. Returns the raw YAML content and the remaining body. The closing
// delimiter must occupy a whole line; a line merely starting with "---"
// (such as "----") does not close the block.
func splitFrontmatter(content string) (string, string, error) {
	const delimiter = "---"

	start := len(delimiter)
	if len(content) > start && content[start] == '\r' {
		start++
	}
	if len(content) > start && content[start] == '\n' {
		start++
	}

	closeIdx := -1
	for from := start; ; {
		idx := strings.Index(content[from:], "\n"+delimiter)
		if idx == -1 {
			break
		}
		candidate := from + idx
		rest := content[candidate+1+len(delimiter):]
		if rest == "" || strings.HasPrefix(rest, "\n") || strings.HasPrefix(rest, "\r\n") {
			closeIdx = candidate
			break
		}
		from = candidate + 1
	}
	if closeIdx == -1 {
		return "", content, fmt.Errorf("no closing frontmatter delimiter")
	}

	yamlContent := content[start:closeIdx]

	bodyStart := closeIdx + 1 + len(delimiter)
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}

	body := ""
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}

	return yamlContent, body, nil
}

// parseBody walks the markdown body extracting the title (when the
// frontmatter lacked one), the explanation prose, and the ordered example
// list. Each fenced code block is associated with the nearest preceding
// heading or bold-label line.
func parseBody(rule *types.Rule, body string) {
	lines := strings.Split(body, "\n")

	var (
		explanation  []string
		currentLabel string
		inFence      bool
		fenceLang    string
		fenceBuf     []string
		sawFence     bool
	)

	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r")

		if inFence {
			if strings.HasPrefix(strings.TrimSpace(trimmed), "```") {
				rule.Examples = append(rule.Examples, types.Example{
					Label:    currentLabel,
					Language: fenceLang,
					Code:     strings.Join(fenceBuf, "\n"),
				})
				inFence = false
				fenceBuf = nil
				continue
			}
			fenceBuf = append(fenceBuf, trimmed)
			continue
		}

		if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
			inFence = true
			sawFence = true
			fenceLang = strings.ToLower(m[1])
			continue
		}

		if m := headingPattern.FindStringSubmatch(trimmed); m != nil {
			level, text := len(m[1]), strings.TrimSpace(m[2])
			if level == 1 {
				// An H1 is the title line even when the frontmatter
				// already provided one; it never labels an example.
				if rule.Title == "" {
					rule.Title = text
				}
				currentLabel = ""
				continue
			}
			currentLabel = text
			continue
		}

		if m := boldLabelPattern.FindStringSubmatch(trimmed); m != nil {
			currentLabel = strings.TrimSpace(m[1])
			continue
		}

		// Prose before the first example belongs to the explanation.
		if !sawFence && currentLabel == "" {
			explanation = append(explanation, trimmed)
		}

		// A bare markdown link under a "Reference" style label fills the
		// reference when the frontmatter did not.
		if rule.Reference == "" && strings.Contains(strings.ToLower(currentLabel), "reference") {
			if url := firstLinkTarget(trimmed); url != "" {
				rule.Reference = url
			}
		}
	}

	// Unterminated fence: keep what was captured rather than dropping it.
	if inFence {
		rule.Examples = append(rule.Examples, types.Example{
			Label:    currentLabel,
			Language: fenceLang,
			Code:     strings.Join(fenceBuf, "\n"),
		})
	}

	rule.Explanation = strings.TrimSpace(strings.Join(explanation, "\n"))
}

var markdownLinkPattern = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)\)`)

// firstLinkTarget returns the first markdown link target in a line, or "".
func firstLinkTarget(line string) string {
	if m := markdownLinkPattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if strings.HasPrefix(strings.TrimSpace(line), "http://") || strings.HasPrefix(strings.TrimSpace(line), "https://") {
		return strings.TrimSpace(line)
	}
	return ""
}
