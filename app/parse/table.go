package parse

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
)

var markdownLink = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)

// TableRowParser extracts records from a markdown index table, one row
// per proposal. Upstream READMEs use either three columns
// (number, title, status) or four (number, title, type, status).
type TableRowParser struct{}

func NewTableRowParser() *TableRowParser {
	return &TableRowParser{}
}

func (p *TableRowParser) Run(ctx context.Context, src registry.Source, items []fetch.Item) ([]proposal.Record, []ParseError) {
	var records []proposal.Record
	var parseErrors []ParseError

	prefix := strings.ToUpper(src.Standard) + "-"

	for _, item := range items {
		rows := p.parseRows(src, prefix, string(item.Content), item.URL)
		if len(rows) == 0 {
			parseErrors = append(parseErrors, ParseError{Item: item.Name, Reason: "no table rows matched"})
			continue
		}
		records = append(records, rows...)
	}

	return records, parseErrors
}

func (p *TableRowParser) parseRows(src registry.Source, prefix, content, pageURL string) []proposal.Record {
	var records []proposal.Record

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") || !strings.Contains(line, prefix) {
			continue
		}
		if strings.Contains(line, "---") {
			continue
		}

		record, ok := p.parseRow(src, prefix, line, pageURL)
		if ok {
			records = append(records, record)
		}
	}

	return records
}

func (p *TableRowParser) parseRow(src registry.Source, prefix, line, pageURL string) (proposal.Record, bool) {
	cells := splitCells(line)
	if len(cells) < 3 {
		return proposal.Record{}, false
	}

	number := extractRowNumber(prefix, cells[0])
	if number == 0 {
		return proposal.Record{}, false
	}

	title := cells[1]
	if !meaningfulTitle(title) {
		return proposal.Record{}, false
	}

	// Three columns carry number/title/status, four insert a type column
	// before the status.
	rawStatus := cells[2]
	recordType := "Unknown"
	if len(cells) >= 4 {
		recordType = proposal.TitleCase(cells[2])
		rawStatus = cells[3]
	}

	link := pageURL
	if strings.Contains(src.LinkTemplate, "%") {
		link = fmt.Sprintf(src.LinkTemplate, number)
	}

	return proposal.Record{
		Number:    number,
		Title:     title,
		RawStatus: rawStatus,
		Status:    proposal.BucketStatus(rawStatus),
		Type:      recordType,
		Created:   proposal.CreatedUnknown,
		Link:      link,
		Summary:   proposal.Summarize(title),
	}, true
}

func splitCells(line string) []string {
	parts := strings.Split(strings.Trim(line, "|"), "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cell := markdownLink.ReplaceAllString(part, "$1")
		cell = strings.Trim(cell, "* `")
		cell = strings.TrimSpace(cell)
		cells = append(cells, cell)
	}
	return cells
}

func extractRowNumber(prefix, cell string) int {
	upper := strings.ToUpper(cell)
	idx := strings.Index(upper, prefix)
	if idx < 0 {
		return 0
	}
	digits := upper[idx+len(prefix):]
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits[:end])
	if err != nil {
		return 0
	}
	return n
}
