package judge

import "strings"

// BuildJudgmentPrompt returns the prompt for the independent verdict call:
// given the raw report text and the disputed test names, decide per name
// whether it is a legitimate synonym or abbreviation present in the source.
func BuildJudgmentPrompt(rawText string, disputedNames []string) string {
	var b strings.Builder
	b.WriteString(`You are a medical terminology verifier. For each test name listed below, decide whether it refers to a test that genuinely appears in the lab report text, allowing for synonyms and abbreviations (e.g. "Hb" for "Hemoglobin", "TSH" for "Thyroid Stimulating Hormone"). A name that has no support in the text is a fabrication.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object:

{"verdicts": {"<test name>": true or false, ...}}

Use true when the name is legitimately present in the report, false when it is not. Include every listed name exactly as written.

TEST NAMES:
`)
	for _, name := range disputedNames {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("\nLAB REPORT TEXT:\n")
	b.WriteString(rawText)
	return b.String()
}
