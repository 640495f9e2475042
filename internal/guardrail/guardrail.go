package guardrail

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"labsight/internal/domain"
	"labsight/internal/port"
)

// Guardrail verifies that every normalized test is actually supported by the
// raw report text before anything is shown to a patient. It sits between the
// untrusted normalization output and the patient-facing summary.
type Guardrail struct {
	judge port.Judge
}

// New creates a Guardrail that escalates disputed names to the given judge.
func New(judge port.Judge) *Guardrail {
	return &Guardrail{judge: judge}
}

// Decision is the guardrail's verdict on one normalized test set. A
// rejection is a modeled outcome, never an error: the pipeline maps it to
// the unprocessed status.
type Decision struct {
	Accepted  bool
	Escalated bool     // the judge was consulted
	Rejected  []string // test names that could not be confirmed
	Reason    string   // set when not accepted
}

// Verify checks each test name for textual support in rawText and escalates
// the unmatched names to the judge. A single unconfirmed name rejects the
// entire set; partial acceptance is deliberately not performed, because one
// fabrication undermines confidence in the whole normalization pass.
func (g *Guardrail) Verify(ctx context.Context, rawText string, tests []domain.LabTest) Decision {
	// An empty test set is vacuously safe.
	if len(tests) == 0 {
		return Decision{Accepted: true}
	}

	normText := normalize(rawText)
	if normText == "" {
		return Decision{
			Rejected: testNames(tests),
			Reason:   rejectionReason(testNames(tests)),
		}
	}

	textTokens := tokenSet(normText)
	var disputed []string
	for i := range tests {
		if !supported(normText, textTokens, tests[i].Name) {
			disputed = append(disputed, tests[i].Name)
		}
	}

	if len(disputed) == 0 {
		return Decision{Accepted: true}
	}

	// Escalate: an independent judgment call decides whether each disputed
	// name is a legitimate synonym or abbreviation present in the source.
	out, err := g.judge.Judge(ctx, port.JudgeInput{RawText: rawText, DisputedNames: disputed})
	if err != nil {
		// Fail closed: unverified content must never reach a patient.
		log.Printf("guardrail: judgment call failed: %v", err)
		return Decision{
			Escalated: true,
			Rejected:  disputed,
			Reason: fmt.Sprintf(
				"could not verify %s against the supplied report: the judgment service was unavailable",
				strings.Join(disputed, ", "),
			),
		}
	}

	var unconfirmed []string
	for _, name := range disputed {
		if !out.Verdicts[name] {
			unconfirmed = append(unconfirmed, name)
		}
	}

	if len(unconfirmed) == 0 {
		return Decision{Accepted: true, Escalated: true}
	}

	return Decision{
		Escalated: true,
		Rejected:  unconfirmed,
		Reason:    rejectionReason(unconfirmed),
	}
}

func rejectionReason(names []string) string {
	return fmt.Sprintf(
		"could not confirm that the following tests originate from the supplied input: %s",
		strings.Join(names, ", "),
	)
}

func testNames(tests []domain.LabTest) []string {
	names := make([]string, len(tests))
	for i := range tests {
		names[i] = tests[i].Name
	}
	return names
}

// supported reports whether name occurs in the report text, either as a
// case-insensitive whitespace-normalized substring or with every token of
// the name present somewhere in the text.
func supported(normText string, textTokens map[string]struct{}, name string) bool {
	normName := normalize(name)
	if normName == "" {
		return false
	}
	if strings.Contains(normText, normName) {
		return true
	}
	toks := tokenize(normName)
	if len(toks) == 0 {
		// A name with no letters or digits can never match anything;
		// containment over zero tokens must not pass it through.
		return false
	}
	for _, tok := range toks {
		if _, ok := textTokens[tok]; !ok {
			return false
		}
	}
	return true
}

// normalize lowercases and collapses all whitespace runs to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// tokenize splits on any non-alphanumeric rune, so "WBC Count:" and
// "(WBC) count" yield the same tokens.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}
