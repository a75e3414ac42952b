// Package score parses the structured rubric a practice session's closing
// model reply embeds in free text.
package score

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// AxisScore is one evaluated dimension of the rubric.
type AxisScore struct {
	Axis    string `json:"axis"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Extraction keeps the "nothing extracted" outcome observable: Failed plus
// Err say why the scores are empty, but callers still treat empty as a
// valid result, never as an error.
type Extraction struct {
	Scores []AxisScore
	Failed bool
	Err    error
}

type rubricBlock struct {
	Scores []AxisScore `json:"scores"`
}

// Extract locates the first ```json fenced block and decodes its scores
// array. Any absence or malformation yields an empty, Failed extraction.
func Extract(raw string) Extraction {
	start := strings.Index(raw, fenceOpen)
	if start < 0 {
		return Extraction{Failed: true, Err: errors.New("score: no fenced block")}
	}
	body := raw[start+len(fenceOpen):]
	end := strings.Index(body, fenceClose)
	if end < 0 {
		return Extraction{Failed: true, Err: errors.New("score: unterminated fenced block")}
	}

	var block rubricBlock
	if err := json.Unmarshal([]byte(strings.TrimSpace(body[:end])), &block); err != nil {
		return Extraction{Failed: true, Err: err}
	}
	if len(block.Scores) == 0 {
		return Extraction{Failed: true, Err: errors.New("score: empty scores array")}
	}
	return Extraction{Scores: block.Scores}
}

// Average is the arithmetic mean of the integer scores; 0.0 for an empty
// sequence.
func Average(scores []AxisScore) float64 {
	if len(scores) == 0 {
		return 0.0
	}
	sum := 0
	for _, s := range scores {
		sum += s.Score
	}
	return float64(sum) / float64(len(scores))
}
