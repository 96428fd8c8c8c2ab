package matcher

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"navi-be/pkg/llm"
)

const (
	// Neutral middle score used when the response omits the score section.
	defaultScore = 5

	defaultSummary   = "No summary was provided by the model."
	defaultReasoning = "The model response did not include a reasoning section."

	// Bodies are truncated before prompting; regulatory documents can run
	// to hundreds of pages and the judge only needs the gist.
	maxPromptBodyChars = 4000
)

// Judgment is the parsed outcome of one relevance call.
type Judgment struct {
	Score        int    `json:"score"` // clamped to [1,10]
	ShortSummary string `json:"short_summary"`
	Reasoning    string `json:"reasoning"`
}

// Judge asks a generative model how much a document matters to a persona
// and parses the three labeled sections out of the free-form reply.
type Judge struct {
	provider    llm.Provider
	temperature float64
	topP        float64
}

func NewJudge(provider llm.Provider) *Judge {
	return &Judge{
		provider:    provider,
		temperature: 0.2, // deterministic-leaning scoring
		topP:        0.8,
	}
}

// Evaluate builds the prompt, calls the generation endpoint, and parses the
// response. Context cancellation propagates unchanged so callers can tell a
// stop request apart from an endpoint failure.
func (j *Judge) Evaluate(ctx context.Context, profileText string, doc CandidateDocument, location string) (*Judgment, error) {
	prompt := buildJudgePrompt(profileText, doc, location)

	response, err := j.provider.Generate(ctx, prompt,
		llm.WithTemperature(j.temperature),
		llm.WithTopP(j.topP),
	)
	if err != nil {
		return nil, err
	}

	return parseJudgment(response), nil
}

func buildJudgePrompt(profileText string, doc CandidateDocument, location string) string {
	body := doc.Content
	if len(body) > maxPromptBodyChars {
		// Back off to a rune boundary; the cut must not produce invalid UTF-8
		cut := maxPromptBodyChars
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}
	if location == "" {
		location = "unknown"
	}

	var b strings.Builder
	b.WriteString("You are evaluating whether a government regulatory document matters to a specific person.\n\n")

	b.WriteString("PERSON PROFILE:\n")
	b.WriteString(profileText)
	b.WriteString("\n\n")

	b.WriteString("DOCUMENT:\n")
	fmt.Fprintf(&b, "Title: %s\n", doc.Title)
	fmt.Fprintf(&b, "Agency: %s\n", doc.Agency)
	fmt.Fprintf(&b, "Type: %s\n", doc.DocumentType)
	fmt.Fprintf(&b, "Content: %s\n\n", body)

	b.WriteString("SCORING RULES:\n")
	fmt.Fprintf(&b, "- If the document states a geographic scope that excludes the person's location (%s), score it 0-2, UNLESS the document is evidently national in scope.\n", location)
	b.WriteString("- Otherwise score generously. Direct relevance to the person's role, industry, or interests scores high (8-10); secondary relevance through their employer, community, or supply chain scores 5-7; plausible ripple effects score 3-5.\n\n")

	b.WriteString("Respond in exactly this format:\n")
	b.WriteString("Relevance Score: <integer from 1 to 10>\n")
	b.WriteString("Short Summary: <one sentence describing the document>\n")
	b.WriteString("Reasoning: <a short paragraph explaining the score>\n")

	return b.String()
}

// Ordered-section patterns. Each section is matched independently so one
// missing label never poisons the others.
var (
	scoreRe   = regexp.MustCompile(`(?i)Relevance Score:\s*(\d+)`)
	summaryRe = regexp.MustCompile(`(?i)Short Summary:\s*(.+)`)
	reasonRe  = regexp.MustCompile(`(?is)Reasoning:\s*(.+)`)
)

// parseJudgment is a best-effort adapter over free-form model text. Missing
// sections fall back to explanatory placeholders, never an error.
func parseJudgment(response string) *Judgment {
	j := &Judgment{
		Score:        defaultScore,
		ShortSummary: defaultSummary,
		Reasoning:    defaultReasoning,
	}

	if m := scoreRe.FindStringSubmatch(response); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil {
			j.Score = score
		}
	}
	if m := summaryRe.FindStringSubmatch(response); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			j.ShortSummary = s
		}
	}
	if m := reasonRe.FindStringSubmatch(response); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			j.Reasoning = s
		}
	}

	// Clamp to [1,10]: the prompt asks for 1-10 but models occasionally
	// return 0 for the geographic-exclusion rule.
	if j.Score < 1 {
		j.Score = 1
	}
	if j.Score > 10 {
		j.Score = 10
	}

	return j
}
