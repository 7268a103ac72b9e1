package core

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Items returns the distinct non-empty values of the Article column in
// first-seen order. This is the list offered to the item selector.
func Items(t *Table, idx HeaderIndex) []string {
	col := idx[ColumnItem]
	items := lo.FilterMap(t.Rows, func(row []string, _ int) (string, bool) {
		item := CleanLabel(row[col])
		return item, item != ""
	})
	return lo.Uniq(items)
}

// ExtractSeries returns the history of one item sorted by ascending year.
//
// Only the rows of that item are parsed. An Année that is not an integer, a
// Ventes that is not a number, or a year seen twice stops extraction with a
// KindParse *Error naming the workbook row (header is row 1).
func ExtractSeries(t *Table, idx HeaderIndex, item string) (SalesSeries, error) {
	yearCol, itemCol, qtyCol := idx[ColumnYear], idx[ColumnItem], idx[ColumnQuantity]
	series := SalesSeries{Item: item}
	seen := make(map[int]int)

	for i, row := range t.Rows {
		if CleanLabel(row[itemCol]) != item {
			continue
		}
		line := i + 2

		year, err := ParseYear(row[yearCol])
		if err != nil {
			return SalesSeries{}, parseError(fmt.Errorf("row %d, column %s: %w", line, ColumnYear, err))
		}
		qty, err := ParseQuantity(row[qtyCol])
		if err != nil {
			return SalesSeries{}, parseError(fmt.Errorf("row %d, column %s: %w", line, ColumnQuantity, err))
		}
		if first, dup := seen[year]; dup {
			return SalesSeries{}, parseError(fmt.Errorf("duplicate year %d for item %q (rows %d and %d)", year, item, first, line))
		}
		seen[year] = line

		series.Points = append(series.Points, Point{Year: year, Quantity: qty})
	}

	sort.SliceStable(series.Points, func(a, b int) bool {
		return series.Points[a].Year < series.Points[b].Year
	})
	return series, nil
}

// Combine appends forecast rows to a copy of t. The original rows come first
// and are left untouched; forecast rows fill Année, Article and Ventes and
// leave any other column blank.
func Combine(t *Table, idx HeaderIndex, rows []ForecastRow) *Table {
	out := t.Clone()
	for _, fr := range rows {
		rec := fr.Record()
		row := make([]string, len(out.Columns))
		row[idx[ColumnYear]] = FormatYear(rec.Year)
		row[idx[ColumnItem]] = rec.Item
		row[idx[ColumnQuantity]] = FormatQuantity(rec.Quantity)
		out.Rows = append(out.Rows, row)
	}
	return out
}
