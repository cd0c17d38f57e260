// Package compile deterministically assembles validated rules into the
// compiled reference document.
package compile

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/chskill/skillcheck/internal/rules"
	"github.com/chskill/skillcheck/internal/types"
)

// numberedSection is a section with its rules resolved and ordered.
type numberedSection struct {
	section types.Section
	rules   []*types.Rule
}

// Compile renders the full rule set into one markdown document. Output is
// a pure function of the inputs: unchanged rules and metadata produce
// byte-identical documents.
func Compile(set *rules.RuleSet, meta *types.SkillMeta) (string, error) {
	sections, err := groupRules(set.Rules, meta.Sections)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	renderHeader(&b, meta)
	renderTOC(&b, sections)
	references := renderSections(&b, sections)
	renderReferences(&b, references)

	return b.String(), nil
}

// groupRules assigns each rule to the section whose prefix matches its
// filename. Rules matching no prefix are a hard error: silently dropping
// content from the compiled output is a correctness failure. The longest
// matching prefix wins so overlapping prefixes stay unambiguous.
func groupRules(ruleList []*types.Rule, sections []types.Section) ([]numberedSection, error) {
	ordered := make([]types.Section, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Rank < ordered[j].Rank })

	grouped := make([]numberedSection, len(ordered))
	for i, s := range ordered {
		grouped[i] = numberedSection{section: s}
	}

	var orphans []string
	for _, rule := range ruleList {
		best := -1
		bestLen := -1
		for i, ns := range grouped {
			prefix := ns.section.Prefix
			if strings.HasPrefix(rule.File, prefix) && len(prefix) > bestLen {
				best = i
				bestLen = len(prefix)
			}
		}
		if best == -1 {
			orphans = append(orphans, rule.File)
			continue
		}
		grouped[best].rules = append(grouped[best].rules, rule)
	}

	if len(orphans) > 0 {
		sort.Strings(orphans)
		return nil, &OrphanRuleError{Files: orphans}
	}

	// Filename order within a section keeps numbering repeatable.
	for i := range grouped {
		sort.Slice(grouped[i].rules, func(a, b int) bool {
			return grouped[i].rules[a].File < grouped[i].rules[b].File
		})
	}

	return grouped, nil
}

func renderHeader(b *strings.Builder, meta *types.SkillMeta) {
	fmt.Fprintf(b, "# %s\n\n", meta.Name)
	fmt.Fprintf(b, "**Version %s**", meta.Version)
	if meta.Organization != "" {
		fmt.Fprintf(b, " · %s", meta.Organization)
	}
	b.WriteString("\n\n")
	if meta.Abstract != "" {
		fmt.Fprintf(b, "%s\n\n", strings.TrimSpace(meta.Abstract))
	}
}

func renderTOC(b *strings.Builder, sections []numberedSection) {
	b.WriteString("## Table of Contents\n\n")
	for _, ns := range sections {
		sectionHeading := fmt.Sprintf("%d. %s", ns.section.Rank, ns.section.Name)
		fmt.Fprintf(b, "- [%s](#%s)\n", sectionHeading, anchor(sectionHeading))
		for i, rule := range ns.rules {
			ruleHeading := fmt.Sprintf("%d.%d %s", ns.section.Rank, i+1, rule.Title)
			fmt.Fprintf(b, "  - [%s](#%s)\n", ruleHeading, anchor(ruleHeading))
		}
	}
	b.WriteString("\n")
}

// renderSections writes every section and returns the collected rule
// references in document order.
func renderSections(b *strings.Builder, sections []numberedSection) []string {
	var references []string

	for _, ns := range sections {
		fmt.Fprintf(b, "## %d. %s\n\n", ns.section.Rank, ns.section.Name)
		if ns.section.Description != "" {
			fmt.Fprintf(b, "%s\n\n", strings.TrimSpace(ns.section.Description))
		}

		for i, rule := range ns.rules {
			renderRule(b, ns.section.Rank, i+1, rule)
			if rule.Reference != "" {
				references = append(references, rule.Reference)
			}
		}
	}

	return references
}

func renderRule(b *strings.Builder, sectionRank, index int, rule *types.Rule) {
	fmt.Fprintf(b, "### %d.%d %s\n\n", sectionRank, index, rule.Title)

	fmt.Fprintf(b, "**Impact: %s**", strings.ToUpper(string(rule.Impact)))
	if rule.ImpactDescription != "" {
		fmt.Fprintf(b, " (%s)", rule.ImpactDescription)
	}
	b.WriteString("\n\n")

	if len(rule.Tags) > 0 {
		fmt.Fprintf(b, "Tags: `%s`\n\n", strings.Join(rule.Tags, "`, `"))
	}

	if rule.Explanation != "" {
		fmt.Fprintf(b, "%s\n\n", strings.TrimSpace(rule.Explanation))
	}

	for _, example := range rule.Examples {
		if example.Label != "" {
			fmt.Fprintf(b, "**%s**\n\n", example.Label)
		}
		fmt.Fprintf(b, "```%s\n%s\n```\n\n", example.Language, strings.TrimRight(example.Code, "\n"))
	}

	if rule.Reference != "" {
		fmt.Fprintf(b, "Reference: <%s>\n\n", rule.Reference)
	}
}

func renderReferences(b *strings.Builder, references []string) {
	if len(references) == 0 {
		return
	}

	// Deduplicate while keeping first-seen order.
	seen := make(map[string]bool, len(references))
	b.WriteString("## References\n\n")
	for _, ref := range references {
		if seen[ref] {
			continue
		}
		seen[ref] = true
		fmt.Fprintf(b, "- <%s>\n", ref)
	}
}

var anchorStripPattern = regexp.MustCompile(`[^a-z0-9 -]`)

// anchor converts a heading to its markdown anchor: lowercase, punctuation
// removed, spaces to hyphens. Matches the scheme used by the TOC links.
func anchor(heading string) string {
	a := strings.ToLower(heading)
	a = anchorStripPattern.ReplaceAllString(a, "")
	a = strings.ReplaceAll(a, " ", "-")
	return a
}
