package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultTimeLimit is applied when a row's time column is missing or unparseable.
// The limit is advisory: sectors do not enforce it.
const DefaultTimeLimit = 45

// minFields is the number of semicolon-delimited columns a row needs to be
// considered valid: kind;text;op1;op2;op3;op4;time;correct. The image column
// is optional.
const minFields = 8

type Question struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	TimeLimit    int      `json:"time_limit"`
	CorrectIndex int      `json:"correct_index"` // 0-based
	ImageURL     string   `json:"image_url,omitempty"`
}

// Parse turns a raw semicolon-delimited quiz file into an ordered question
// slice. A header row is detected heuristically (first line mentions "tipo")
// and skipped. Malformed rows are dropped, never fatal. The "correct" column
// is 1-based in the file and converted to the 0-based index used everywhere
// else.
func Parse(raw string) []Question {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) == 0 {
		return nil
	}

	start := 0
	if strings.Contains(strings.ToLower(lines[0]), "tipo") {
		start = 1
	}

	var questions []Question
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(strings.TrimSuffix(lines[i], "\r"))
		if line == "" {
			continue
		}

		parts := strings.Split(line, ";")
		for j, p := range parts {
			parts[j] = strings.Trim(strings.TrimSpace(p), `"`)
		}
		if len(parts) < minFields {
			continue
		}

		options := make([]string, 0, 4)
		for _, o := range parts[2:6] {
			if o != "" {
				options = append(options, o)
			}
		}
		if len(options) < 2 {
			continue
		}

		timeLimit, err := strconv.Atoi(parts[6])
		if err != nil || timeLimit <= 0 {
			timeLimit = DefaultTimeLimit
		}

		correct := 0
		if v, err := strconv.Atoi(parts[7]); err == nil && v >= 1 {
			correct = v - 1
		}
		if correct >= len(options) {
			correct = 0
		}

		var imageURL string
		if len(parts) > 8 {
			imageURL = parts[8]
		}

		questions = append(questions, Question{
			ID:           fmt.Sprintf("q-%d", i),
			Kind:         parts[0],
			Text:         parts[1],
			Options:      options,
			TimeLimit:    timeLimit,
			CorrectIndex: correct,
			ImageURL:     imageURL,
		})
	}

	return questions
}
