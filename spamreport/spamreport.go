// Package spamreport provides types and utilities for working with the
// SpamAssassin reports Mailtrap produces for captured messages.
package spamreport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ResponseCode is the SpamAssassin response code of a report.
type ResponseCode int

const (
	// CodeNotSpam indicates the message scored below the threshold.
	CodeNotSpam ResponseCode = 2
	// CodeSpam indicates the message scored at or above the threshold.
	CodeSpam ResponseCode = 3
)

// Points is a rule score. The API reports it either as a number or as a
// numeric string.
type Points float64

// UnmarshalJSON accepts 1.5 as well as "1.5".
func (p *Points) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("spamreport: invalid points %q: %w", s, err)
		}
		*p = Points(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Points(f)
	return nil
}

// Rule is an individual SpamAssassin rule that matched the message.
type Rule struct {
	// Points is the contribution of this rule. Positive values push the
	// message towards spam, negative values away from it.
	Points Points `json:"Pts"`
	// Name is the rule identifier (e.g., "HTML_MESSAGE", "MISSING_DATE").
	Name string `json:"RuleName"`
	// Description is a human-readable description of what the rule detects.
	Description string `json:"Description"`
}

// Report is the spam analysis of a captured message.
type Report struct {
	ResponseCode    ResponseCode `json:"ResponseCode"`
	ResponseMessage string       `json:"ResponseMessage"`
	ResponseVersion string       `json:"ResponseVersion"`
	// Score is the total spam score.
	Score float64 `json:"Score"`
	// Spam is the verdict reported by the server.
	Spam bool `json:"Spam"`
	// Threshold is the score at which a message is considered spam.
	Threshold float64 `json:"Threshold"`
	Details   []Rule  `json:"Details"`
}

// IsSpam reports the server verdict, falling back to comparing the score
// with the threshold when the verdict is absent.
func (r *Report) IsSpam() bool {
	if r == nil {
		return false
	}
	if r.Spam || r.ResponseCode == CodeSpam {
		return true
	}
	return r.Threshold > 0 && r.Score >= r.Threshold
}

// Margin returns how far below the threshold the score is. A negative
// margin means the message is over the threshold.
func (r *Report) Margin() float64 {
	if r == nil {
		return 0
	}
	return r.Threshold - r.Score
}

// Verdict provides a summary of a spam report.
type Verdict struct {
	// Available indicates whether a report was produced.
	Available bool
	IsSpam    bool
	Score     float64
	Threshold float64
	// Reason explains the verdict in one line.
	Reason string
}

// Validate summarizes the report.
func (r *Report) Validate() Verdict {
	if r == nil {
		return Verdict{Reason: "no spam report available"}
	}

	v := Verdict{
		Available: true,
		IsSpam:    r.IsSpam(),
		Score:     r.Score,
		Threshold: r.Threshold,
	}
	if v.IsSpam {
		v.Reason = fmt.Sprintf("score %.1f reaches threshold %.1f", r.Score, r.Threshold)
	} else {
		v.Reason = fmt.Sprintf("score %.1f is below threshold %.1f", r.Score, r.Threshold)
	}
	if r.ResponseMessage != "" {
		v.Reason = r.ResponseMessage + ": " + v.Reason
	}
	return v
}

// TopRules returns up to n rules with the highest positive contribution,
// highest first.
func (r *Report) TopRules(n int) []Rule {
	if r == nil || n <= 0 {
		return nil
	}
	positive, _, _ := CategorizeRules(r.Details)
	sort.SliceStable(positive, func(i, j int) bool {
		return positive[i].Points > positive[j].Points
	})
	if len(positive) > n {
		positive = positive[:n]
	}
	return positive
}

// CategorizeRules groups rules by their effect on the spam score.
// Returns three slices: spam indicators (positive points), ham indicators
// (negative points), and informational (zero points).
func CategorizeRules(rules []Rule) (positive, negative, neutral []Rule) {
	for _, r := range rules {
		if r.Points > 0 {
			positive = append(positive, r)
		} else if r.Points < 0 {
			negative = append(negative, r)
		} else {
			neutral = append(neutral, r)
		}
	}
	return
}
