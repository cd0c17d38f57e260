package compile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chskill/skillcheck/internal/rules"
	"github.com/chskill/skillcheck/internal/types"
)

func testMeta() *types.SkillMeta {
	return &types.SkillMeta{
		Name:         "ClickHouse Best Practices",
		Version:      "1.0.0",
		Organization: "ClickHouse",
		Abstract:     "Curated best-practice rules.",
		Sections: []types.Section{
			{Name: "Query Performance", Prefix: "query-", Impact: types.ImpactHigh, Rank: 2, Description: "Query tuning."},
			{Name: "Schema Design", Prefix: "schema-", Impact: types.ImpactCritical, Rank: 1, Description: "Table layout."},
		},
	}
}

func testRule(file, title string) *types.Rule {
	return &types.Rule{
		ID:          strings.TrimSuffix(file, ".md"),
		File:        file,
		Title:       title,
		Impact:      types.ImpactHigh,
		Explanation: "Explanation for " + title + ".",
		Examples: []types.Example{
			{Label: "Incorrect", Language: "sql", Code: "SELECT 2;"},
			{Label: "Correct", Language: "sql", Code: "SELECT 1;"},
		},
		Reference: "https://clickhouse.com/docs/" + strings.TrimSuffix(file, ".md"),
	}
}

func testSet(ruleList ...*types.Rule) *rules.RuleSet {
	return &rules.RuleSet{Rules: ruleList}
}

func TestCompile_SectionOrderAndNumbering(t *testing.T) {
	set := testSet(
		testRule("query-avoid-select-star.md", "Avoid SELECT *"),
		testRule("schema-partition-key.md", "Choose a coarse partition key"),
		testRule("schema-order-by.md", "Pick ORDER BY to match queries"),
	)

	doc, err := Compile(set, testMeta())
	require.NoError(t, err)

	// Sections ordered by rank, rules by filename within a section.
	assert.Contains(t, doc, "## 1. Schema Design")
	assert.Contains(t, doc, "### 1.1 Pick ORDER BY to match queries")
	assert.Contains(t, doc, "### 1.2 Choose a coarse partition key")
	assert.Contains(t, doc, "## 2. Query Performance")
	assert.Contains(t, doc, "### 2.1 Avoid SELECT *")

	assert.Less(t, strings.Index(doc, "## 1. Schema Design"), strings.Index(doc, "## 2. Query Performance"))
}

func TestCompile_TOCAnchorsMatchHeadings(t *testing.T) {
	set := testSet(testRule("schema-partition-key.md", "Choose a coarse partition key"))

	doc, err := Compile(set, testMeta())
	require.NoError(t, err)

	assert.Contains(t, doc, "- [1. Schema Design](#1-schema-design)")
	assert.Contains(t, doc, "  - [1.1 Choose a coarse partition key](#11-choose-a-coarse-partition-key)")
}

func TestCompile_RendersRuleContent(t *testing.T) {
	rule := testRule("schema-partition-key.md", "Choose a coarse partition key")
	rule.ImpactDescription = "Wrong keys cause part explosions"
	rule.Tags = []string{"partitioning", "merges"}

	doc, err := Compile(testSet(rule), testMeta())
	require.NoError(t, err)

	assert.Contains(t, doc, "**Impact: HIGH** (Wrong keys cause part explosions)")
	assert.Contains(t, doc, "Tags: `partitioning`, `merges`")
	assert.Contains(t, doc, "Explanation for Choose a coarse partition key.")
	assert.Contains(t, doc, "**Incorrect**\n\n```sql\nSELECT 2;\n```")
	assert.Contains(t, doc, "**Correct**\n\n```sql\nSELECT 1;\n```")
	assert.Contains(t, doc, "Reference: <https://clickhouse.com/docs/schema-partition-key>")
	assert.Contains(t, doc, "## References\n\n- <https://clickhouse.com/docs/schema-partition-key>")

	// Incorrect precedes correct in presentation order.
	assert.Less(t, strings.Index(doc, "**Incorrect**"), strings.Index(doc, "**Correct**"))
}

func TestCompile_OrphanRuleIsHardError(t *testing.T) {
	set := testSet(
		testRule("schema-order-by.md", "Pick ORDER BY"),
		testRule("ops-monitor-merges.md", "Monitor merges"),
	)

	_, err := Compile(set, testMeta())
	require.Error(t, err)

	orphanErr, ok := err.(*OrphanRuleError)
	require.True(t, ok, "expected *OrphanRuleError, got %T", err)
	assert.Equal(t, []string{"ops-monitor-merges.md"}, orphanErr.Files)
}

// Compiling the same unchanged inputs twice yields byte-identical output.
func TestCompile_Deterministic(t *testing.T) {
	set := testSet(
		testRule("query-avoid-select-star.md", "Avoid SELECT *"),
		testRule("schema-partition-key.md", "Choose a coarse partition key"),
		testRule("schema-order-by.md", "Pick ORDER BY to match queries"),
	)
	meta := testMeta()

	first, err := Compile(set, meta)
	require.NoError(t, err)
	second, err := Compile(set, meta)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// Adding a rule to one section renumbers only that section.
func TestCompile_IdempotentNumberingAcrossSections(t *testing.T) {
	base := []*types.Rule{
		testRule("query-avoid-select-star.md", "Avoid SELECT *"),
		testRule("schema-order-by.md", "Pick ORDER BY to match queries"),
	}

	before, err := Compile(testSet(base...), testMeta())
	require.NoError(t, err)

	withNew := append(base, testRule("schema-aaa-codec.md", "Pick codecs deliberately"))
	after, err := Compile(testSet(withNew...), testMeta())
	require.NoError(t, err)

	// The new rule sorts first within section 1 and renumbers it.
	assert.Contains(t, after, "### 1.1 Pick codecs deliberately")
	assert.Contains(t, after, "### 1.2 Pick ORDER BY to match queries")

	// Section 2 numbering is untouched.
	assert.Contains(t, before, "### 2.1 Avoid SELECT *")
	assert.Contains(t, after, "### 2.1 Avoid SELECT *")
}

// Two rules sharing a title but with different filenames both compile as
// distinct numbered entries.
func TestCompile_NoDedupByTitle(t *testing.T) {
	set := testSet(
		testRule("schema-a.md", "Same title"),
		testRule("schema-b.md", "Same title"),
	)

	doc, err := Compile(set, testMeta())
	require.NoError(t, err)
	assert.Contains(t, doc, "### 1.1 Same title")
	assert.Contains(t, doc, "### 1.2 Same title")
}

func TestCompile_LongestPrefixWins(t *testing.T) {
	meta := testMeta()
	meta.Sections = append(meta.Sections, types.Section{
		Name: "Schema Codecs", Prefix: "schema-codec-", Impact: types.ImpactMedium, Rank: 3,
	})

	set := testSet(
		testRule("schema-codec-delta.md", "Use Delta for timestamps"),
		testRule("schema-order-by.md", "Pick ORDER BY"),
	)

	doc, err := Compile(set, meta)
	require.NoError(t, err)
	assert.Contains(t, doc, "### 3.1 Use Delta for timestamps")
	assert.Contains(t, doc, "### 1.1 Pick ORDER BY")
}

func TestAnchor(t *testing.T) {
	tests := []struct {
		heading string
		want    string
	}{
		{"1. Schema Design", "1-schema-design"},
		{"1.1 Avoid SELECT *", "11-avoid-select-"},
		{"2.3 Use LowCardinality(String)", "23-use-lowcardinalitystring"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, anchor(tc.heading), "heading %q", tc.heading)
	}
}

func TestCompile_HeaderBlock(t *testing.T) {
	doc, err := Compile(testSet(testRule("schema-a.md", "A")), testMeta())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "# ClickHouse Best Practices\n\n"))
	assert.Contains(t, doc, "**Version 1.0.0** · ClickHouse")
	assert.Contains(t, doc, "Curated best-practice rules.")
	assert.Contains(t, doc, "## Table of Contents")
}
