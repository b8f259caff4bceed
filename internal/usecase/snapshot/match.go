package snapshot

import "strings"

const maxPromptMatches = 10

type PromptMatch struct {
	Line    int    `json:"line"`
	Content string `json:"content"`
	Context string `json:"context"`
}

type PromptMatches struct {
	Matches      []PromptMatch `json:"matches"`
	Prompt       string        `json:"prompt"`
	TotalMatches int           `json:"total_matches"`
}

// PromptKeywords maps a free-form prompt to the snapshot terms worth looking for.
func PromptKeywords(prompt string) []string {
	p := strings.ToLower(prompt)
	var keywords []string
	if strings.Contains(p, "login") || strings.Contains(p, "sign in") {
		keywords = append(keywords, "button", "login", "sign in", "submit")
	}
	if strings.Contains(p, "button") {
		keywords = append(keywords, "button")
	}
	if strings.Contains(p, "link") {
		keywords = append(keywords, "link")
	}
	if strings.Contains(p, "input") || strings.Contains(p, "field") {
		keywords = append(keywords, "input", "textbox", "field")
	}
	return keywords
}

// MatchPrompt finds snapshot lines relevant to prompt, each with two lines of
// surrounding context. At most ten matches are returned; TotalMatches counts all.
func MatchPrompt(snapshot, prompt string) PromptMatches {
	keywords := PromptKeywords(prompt)
	lines := strings.Split(snapshot, "\n")

	matches := make([]PromptMatch, 0)
	total := 0
	for i, line := range lines {
		lower := strings.ToLower(line)
		if !containsAny(lower, keywords) {
			continue
		}
		total++
		if len(matches) >= maxPromptMatches {
			continue
		}
		lo := max(0, i-2)
		hi := min(len(lines), i+3)
		matches = append(matches, PromptMatch{
			Line:    i + 1,
			Content: strings.TrimSpace(line),
			Context: strings.Join(lines[lo:hi], "\n"),
		})
	}

	return PromptMatches{
		Matches:      matches,
		Prompt:       prompt,
		TotalMatches: total,
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
