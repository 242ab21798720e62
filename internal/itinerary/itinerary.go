// Package itinerary renders an ascent schedule and its recommendation
// blocks into downloadable documents.
package itinerary

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Skufu/GoSummit/internal/assessment"
	"github.com/Skufu/GoSummit/internal/recommendation"
)

type Format string

const (
	FormatText Format = "text"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "text", "txt" and "xlsx"; empty means text.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "text", "txt":
		return FormatText, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported itinerary format %q", raw)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/plain; charset=utf-8"
}

func (f Format) Extension() string {
	if f == FormatXLSX {
		return "xlsx"
	}
	return "txt"
}

type Itinerary struct {
	Title            string
	GuidelineVersion string
	Schedule         []assessment.ScheduleEntry
	Blocks           []recommendation.Block
}

// DayLine formats one schedule entry as "Day N: altitude Xm [REST]".
func DayLine(e assessment.ScheduleEntry) string {
	line := fmt.Sprintf("Day %d: altitude %.0fm", e.Day, e.Altitude)
	if e.IsRestDay {
		line += " [REST]"
	}
	return line
}

// Render writes it in format f.
func Render(w io.Writer, it Itinerary, f Format) error {
	switch f {
	case FormatText:
		return WriteText(w, it)
	case FormatXLSX:
		b, err := XLSX(it)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("unsupported itinerary format %q", f)
}

// WriteText writes one line per day followed by the recommendation blocks.
func WriteText(w io.Writer, it Itinerary) error {
	bw := bufio.NewWriter(w)
	if it.Title != "" {
		fmt.Fprintln(bw, it.Title)
		fmt.Fprintln(bw, strings.Repeat("=", len(it.Title)))
	}
	if it.GuidelineVersion != "" {
		fmt.Fprintf(bw, "Guideline: %s\n", it.GuidelineVersion)
	}
	fmt.Fprintln(bw)

	for _, e := range it.Schedule {
		fmt.Fprintln(bw, DayLine(e))
	}

	for _, b := range it.Blocks {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, b.Title)
		for _, l := range b.Lines {
			fmt.Fprintf(bw, "  - %s\n", l)
		}
		for _, m := range b.Medications {
			fmt.Fprintf(bw, "  * %s\n", medicationLine(m))
		}
	}
	return bw.Flush()
}

func medicationLine(m recommendation.Medication) string {
	s := fmt.Sprintf("%s %s %s", m.Name, m.Dose, m.Schedule)
	if m.Note != "" {
		s += " (" + m.Note + ")"
	}
	return s
}
