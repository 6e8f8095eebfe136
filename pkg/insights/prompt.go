package insights

import (
	"fmt"

	"github.com/codeGROOVE-dev/ouraboard/pkg/dashboard"
)

const promptTemplate = `You are looking at one person's Oura ring data for %s to %s.
Scores run from 0 to 100. "--" marks a missing value.

DATA:
%s

Write a brief, friendly read of the trends. Do not give medical advice.
Respond with JSON only.`

// Prompt renders v as Markdown and wraps it in the instruction text.
func Prompt(v *dashboard.View) (string, error) {
	report, err := dashboard.Markdown(v, nil)
	if err != nil {
		return "", fmt.Errorf("building prompt: %w", err)
	}
	return fmt.Sprintf(promptTemplate, v.DateRange.Start, v.DateRange.End, report), nil
}
