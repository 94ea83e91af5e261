// Package calendar renders plain-text month and year calendars with weeks
// starting on Monday.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	MinYear = 1
	MaxYear = 9999
)

var (
	ErrYearRange  = errors.New("year out of range")
	ErrMonthRange = errors.New("month out of range")
)

const (
	dayWidth     = 2
	colWidth     = 7*(dayWidth+1) - 1
	colSpacing   = 6
	monthsPerRow = 3
)

type week [7]int

// Month returns the calendar of a single month, e.g.
//
//	    January 2024
//	Mo Tu We Th Fr Sa Su
//	 1  2  3  4  5  6  7
//	...
func Month(year, month int) (string, error) {
	if err := validate(year, month); err != nil {
		return "", err
	}
	m := time.Month(month)
	var b strings.Builder
	writeLine(&b, center(m.String()+" "+strconv.Itoa(year), colWidth))
	writeLine(&b, weekHeader())
	for _, w := range weeks(year, m) {
		writeLine(&b, formatWeek(w))
	}
	return b.String(), nil
}

// Year returns a full-year calendar, three months per row.
func Year(year int) (string, error) {
	if err := validate(year, 1); err != nil {
		return "", err
	}
	var b strings.Builder
	writeLine(&b, center(strconv.Itoa(year), colWidth*monthsPerRow+colSpacing*(monthsPerRow-1)))
	header := weekHeader()
	for first := 1; first <= 12; first += monthsPerRow {
		months := make([]time.Month, 0, monthsPerRow)
		for m := first; m < first+monthsPerRow && m <= 12; m++ {
			months = append(months, time.Month(m))
		}

		b.WriteString("\n")
		names := make([]string, len(months))
		headers := make([]string, len(months))
		rows := make([][]week, len(months))
		height := 0
		for i, m := range months {
			names[i] = m.String()
			headers[i] = header
			rows[i] = weeks(year, m)
			if len(rows[i]) > height {
				height = len(rows[i])
			}
		}
		writeLine(&b, columns(names))
		writeLine(&b, columns(headers))
		for j := 0; j < height; j++ {
			cells := make([]string, len(months))
			for i := range months {
				if j < len(rows[i]) {
					cells[i] = formatWeek(rows[i][j])
				}
			}
			writeLine(&b, columns(cells))
		}
	}
	return b.String(), nil
}

func validate(year, month int) error {
	if year < MinYear || year > MaxYear {
		return errors.Wrapf(ErrYearRange, "%d not in %d..%d", year, MinYear, MaxYear)
	}
	if month < 1 || month > 12 {
		return errors.Wrapf(ErrMonthRange, "%d not in 1..12", month)
	}
	return nil
}

// weeks lays out the days of month in Monday-first weeks; 0 marks a day
// belonging to a neighbouring month.
func weeks(year int, month time.Month) []week {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	col := (int(first.Weekday()) + 6) % 7

	var out []week
	var w week
	for d := 1; d <= days; d++ {
		w[col] = d
		col++
		if col == 7 {
			out = append(out, w)
			w = week{}
			col = 0
		}
	}
	if col > 0 {
		out = append(out, w)
	}
	return out
}

func weekHeader() string {
	names := make([]string, 7)
	for i := range names {
		names[i] = time.Weekday((i + 1) % 7).String()[:dayWidth]
	}
	return strings.Join(names, " ")
}

func formatWeek(w week) string {
	cells := make([]string, len(w))
	for i, d := range w {
		if d == 0 {
			cells[i] = strings.Repeat(" ", dayWidth)
			continue
		}
		cells[i] = fmt.Sprintf("%*d", dayWidth, d)
	}
	return strings.Join(cells, " ")
}

func columns(cells []string) string {
	centered := make([]string, len(cells))
	for i, c := range cells {
		centered[i] = center(c, colWidth)
	}
	return strings.Join(centered, strings.Repeat(" ", colSpacing))
}

// center pads s to width, putting the odd space on the left when both the
// margin and the width are odd.
func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	margin := width - n
	left := margin/2 + (margin & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", margin-left)
}

func writeLine(b *strings.Builder, s string) {
	b.WriteString(strings.TrimRight(s, " "))
	b.WriteString("\n")
}
