package service

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pageza/snapcal/backend/internal/models"
)

// CSVHeader lists the export columns. The order is fixed for compatibility.
const CSVHeader = "Date,Meal Type,Food Name,Calories,Protein(g),Carbs(g),Fat(g),Portion"

// WriteCSV writes the header and one row per entry. Rows are separated by
// newlines with no trailing newline. Food name and portion are always quoted.
func WriteCSV(w io.Writer, entries []models.FoodEntry) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(CSVHeader)
	bw.WriteString("\n")
	for i, e := range entries {
		if i > 0 {
			bw.WriteString("\n")
		}
		bw.WriteString(strings.Join([]string{
			e.Date,
			strings.ToUpper(e.MealType),
			quoteField(e.FoodName),
			strconv.Itoa(e.Calories),
			formatGrams(e.Protein),
			formatGrams(e.Carbs),
			formatGrams(e.Fat),
			quoteField(e.Portion),
		}, ","))
	}
	return bw.Flush()
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// formatGrams always carries a decimal point, e.g. 12.0 or 4.5
func formatGrams(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ExportCSV writes every entry, latest first
func (s *CalorieService) ExportCSV(ctx context.Context, w io.Writer) error {
	entries, err := s.AllEntriesForExport(ctx)
	if err != nil {
		return err
	}
	return WriteCSV(w, entries)
}
