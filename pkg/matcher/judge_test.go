package matcher

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"navi-be/pkg/llm"
)

func TestParseJudgment(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		wantScore   int
		wantSummary string
		wantReason  string
	}{
		{
			name: "well formed response",
			response: "Relevance Score: 8\n" +
				"Short Summary: New emissions standards for heavy trucks.\n" +
				"Reasoning: Directly affects the persona's fleet.",
			wantScore:   8,
			wantSummary: "New emissions standards for heavy trucks.",
			wantReason:  "Directly affects the persona's fleet.",
		},
		{
			name:        "lowercase labels",
			response:    "relevance score: 6\nshort summary: A rule.\nreasoning: Because.",
			wantScore:   6,
			wantSummary: "A rule.",
			wantReason:  "Because.",
		},
		{
			name: "multiline reasoning is kept whole",
			response: "Relevance Score: 7\n" +
				"Short Summary: Licensing changes.\n" +
				"Reasoning: First line.\nSecond line.",
			wantScore:   7,
			wantSummary: "Licensing changes.",
			wantReason:  "First line.\nSecond line.",
		},
		{
			name:        "missing score falls back to neutral",
			response:    "Short Summary: Something.\nReasoning: Something else.",
			wantScore:   defaultScore,
			wantSummary: "Something.",
			wantReason:  "Something else.",
		},
		{
			name:        "zero clamps up to one",
			response:    "Relevance Score: 0\nShort Summary: Out of state rule.\nReasoning: Excluded by geography.",
			wantScore:   1,
			wantSummary: "Out of state rule.",
			wantReason:  "Excluded by geography.",
		},
		{
			name:        "overshoot clamps down to ten",
			response:    "Relevance Score: 15\nShort Summary: s\nReasoning: r",
			wantScore:   10,
			wantSummary: "s",
			wantReason:  "r",
		},
		{
			name:        "free-form chatter falls back entirely",
			response:    "I think this document is quite interesting overall.",
			wantScore:   defaultScore,
			wantSummary: defaultSummary,
			wantReason:  defaultReasoning,
		},
		{
			name: "prose around the sections is tolerated",
			response: "Sure! Here is my evaluation:\n\n" +
				"Relevance Score: 9\n" +
				"Short Summary: Fuel tax changes.\n" +
				"Reasoning: High impact on operating costs.",
			wantScore:   9,
			wantSummary: "Fuel tax changes.",
			wantReason:  "High impact on operating costs.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := parseJudgment(tt.response)
			if j.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", j.Score, tt.wantScore)
			}
			if j.ShortSummary != tt.wantSummary {
				t.Errorf("summary = %q, want %q", j.ShortSummary, tt.wantSummary)
			}
			if j.Reasoning != tt.wantReason {
				t.Errorf("reasoning = %q, want %q", j.Reasoning, tt.wantReason)
			}
		})
	}
}

func TestBuildJudgePrompt(t *testing.T) {
	doc := CandidateDocument{
		ID:           "EPA-1",
		Title:        "Emissions Rule",
		Agency:       "EPA",
		DocumentType: "Proposed Rule",
		Content:      strings.Repeat("x", maxPromptBodyChars+500),
	}

	prompt := buildJudgePrompt("Name: Jo\nLocation: Texas", doc, "Texas")

	if !strings.Contains(prompt, "Name: Jo") {
		t.Error("prompt must include the profile text")
	}
	if !strings.Contains(prompt, "Title: Emissions Rule") {
		t.Error("prompt must include the document title")
	}
	if !strings.Contains(prompt, "(Texas)") {
		t.Error("prompt must name the persona's location in the geographic rule")
	}
	if !strings.Contains(prompt, "national in scope") {
		t.Error("prompt must carry the national-scope exception")
	}
	if strings.Contains(prompt, doc.Content) {
		t.Error("oversized bodies must be truncated")
	}
	if !strings.Contains(prompt, "Relevance Score:") {
		t.Error("prompt must pin the response format")
	}
}

func TestBuildJudgePromptTruncatesOnRuneBoundary(t *testing.T) {
	// 3-byte runes; the byte limit lands mid-rune
	doc := CandidateDocument{
		ID:      "EPA-1",
		Title:   "Emissions Rule",
		Content: strings.Repeat("€", maxPromptBodyChars),
	}

	prompt := buildJudgePrompt("Name: Jo", doc, "Texas")

	if !utf8.ValidString(prompt) {
		t.Fatal("truncated prompt must stay valid UTF-8")
	}
	if strings.Contains(prompt, doc.Content) {
		t.Error("oversized bodies must be truncated")
	}
}

type scriptedProvider struct {
	response string
	err      error
	prompts  []string
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func TestJudgeEvaluate(t *testing.T) {
	provider := &scriptedProvider{
		response: "Relevance Score: 8\nShort Summary: s\nReasoning: r",
	}
	judge := NewJudge(provider)

	j, err := judge.Evaluate(context.Background(), "Name: Jo", CandidateDocument{ID: "d", Title: "T"}, "Texas")
	if err != nil {
		t.Fatal(err)
	}
	if j.Score != 8 {
		t.Errorf("score = %d, want 8", j.Score)
	}
	if len(provider.prompts) != 1 {
		t.Fatalf("provider called %d times, want 1", len(provider.prompts))
	}
}

func TestJudgeEvaluateCancelledContext(t *testing.T) {
	provider := &scriptedProvider{response: "Relevance Score: 8\nShort Summary: s\nReasoning: r"}
	judge := NewJudge(provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := judge.Evaluate(ctx, "Name: Jo", CandidateDocument{ID: "d"}, "")
	if err != context.Canceled {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
