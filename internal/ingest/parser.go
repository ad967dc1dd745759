// backend-go/internal/ingest/parser.go
package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/stocklens/backend-go/internal/domain"
)

// The four recognized day-column templates. A header matching any of them
// contributes its day index to maxDay.
var dayColumnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^procurement qty \(day (\d+)\)$`),
	regexp.MustCompile(`(?i)^procurement price \(day (\d+)\)$`),
	regexp.MustCompile(`(?i)^sales qty \(day (\d+)\)$`),
	regexp.MustCompile(`(?i)^sales price \(day (\d+)\)$`),
}

const (
	colID               = "id"
	colProductName      = "product name"
	colOpeningInventory = "opening inventory"
)

// DetectMaxDay scans headers for the highest day index across the four
// recognized column templates. Headers are trimmed before matching. Returns
// a ValidationError when no header matches any template.
func DetectMaxDay(headers []string) (int, error) {
	maxDay := 0
	found := false
	for _, h := range headers {
		h = strings.TrimSpace(h)
		for _, p := range dayColumnPatterns {
			m := p.FindStringSubmatch(h)
			if m == nil {
				continue
			}
			day, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			found = true
			if day > maxDay {
				maxDay = day
			}
		}
	}
	if !found {
		return 0, domain.NewValidationError("no recognizable day columns")
	}
	return maxDay, nil
}

// ParseRows turns a decoded table (first row = headers) into admitted
// RawRows plus the derived maxDay. Rows without a non-empty ID or Product
// Name are skipped silently; unparsable numeric cells coerce to zero.
func ParseRows(table [][]string) ([]domain.RawRow, int, error) {
	if len(table) == 0 {
		return nil, 0, domain.NewValidationError("no recognizable day columns")
	}

	headers := table[0]
	maxDay, err := DetectMaxDay(headers)
	if err != nil {
		return nil, 0, err
	}

	// Map lower-cased trimmed header -> column index. First occurrence wins.
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}

	cell := func(row []string, key string) string {
		i, ok := index[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rows []domain.RawRow
	for _, record := range table[1:] {
		externalID := cell(record, colID)
		name := cell(record, colProductName)
		if externalID == "" || name == "" {
			// Trailing blank rows and partially filled rows are not errors.
			continue
		}

		raw := domain.RawRow{
			ExternalID:       externalID,
			ProductName:      name,
			OpeningInventory: coerceInt(cell(record, colOpeningInventory)),
			Days:             make(map[int]domain.DayFigures, maxDay),
		}

		for d := 1; d <= maxDay; d++ {
			day := strconv.Itoa(d)
			raw.Days[d] = domain.DayFigures{
				ProcurementQty:   coerceInt(cell(record, "procurement qty (day "+day+")")),
				ProcurementPrice: coerceFloat(cell(record, "procurement price (day "+day+")")),
				SalesQty:         coerceInt(cell(record, "sales qty (day "+day+")")),
				SalesPrice:       coerceFloat(cell(record, "sales price (day "+day+")")),
			}
		}

		rows = append(rows, raw)
	}

	return rows, maxDay, nil
}

// coerceInt applies the leniency policy for messy spreadsheets: anything
// that is not a number becomes zero. Fractional cells (common after xlsx
// round-trips, e.g. "5.0") are truncated.
func coerceInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	log.Debug().Str("cell", s).Msg("unparsable integer cell coerced to 0")
	return 0
}

func coerceFloat(s string) float64 {
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	log.Debug().Str("cell", s).Msg("unparsable numeric cell coerced to 0")
	return 0
}
