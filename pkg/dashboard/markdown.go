package dashboard

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Insight is a short generated commentary on the data.
type Insight struct {
	Headline   string `json:"headline"`
	Summary    string `json:"summary"`
	Suggestion string `json:"suggestion"`
}

type summaryRow struct {
	Label  string
	Values string
}

type summaryChart struct {
	Title string
	Rows  []summaryRow
}

type summaryData struct {
	*View
	Insight *Insight
	Charts  []summaryChart
}

func chartRows(c Chart) []summaryRow {
	rows := make([]summaryRow, len(c.Data.Labels))
	for i, label := range c.Data.Labels {
		parts := make([]string, 0, len(c.Data.Datasets))
		for _, ds := range c.Data.Datasets {
			var v *float64
			if i < len(ds.Data) {
				v = ds.Data[i]
			}
			parts = append(parts, ds.Label+" "+FormatValue(v))
		}
		rows[i] = summaryRow{Label: label, Values: strings.Join(parts, ", ")}
	}
	return rows
}

// SummaryHTML renders the view as a plain HTML fragment: stats, then one list
// per chart with a line per label.
func SummaryHTML(v *View, insight *Insight) (string, error) {
	if v == nil {
		v = Placeholder()
	}
	data := summaryData{View: v, Insight: insight}
	for _, c := range v.Charts {
		data.Charts = append(data.Charts, summaryChart{Title: c.Title, Rows: chartRows(c)})
	}
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}

// Markdown renders the view as a Markdown report.
func Markdown(v *View, insight *Insight) (string, error) {
	html, err := SummaryHTML(v, insight)
	if err != nil {
		return "", err
	}
	out, err := md.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(out) + "\n", nil
}
