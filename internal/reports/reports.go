// Package reports aggregates ledger entries into period totals and
// per-day breakdowns.
package reports

import (
	"sort"

	"github.com/shiwanibaghel76/dairybook/internal/entries"
	"github.com/shiwanibaghel76/dairybook/internal/pricing"
)

// Summary is the overall aggregate of a set of entries. AvgFat and
// AvgSNF are weighted by each entry's quantity.
type Summary struct {
	TotalLiters float64 `json:"total_liters"`
	AvgFat      float64 `json:"avg_fat"`
	AvgSNF      float64 `json:"avg_snf"`
	TotalAmount float64 `json:"total_amount"`
}

// DailyRow is one date's aggregate. AvgFat and AvgSNF are plain means
// over that day's entries, not weighted by quantity.
type DailyRow struct {
	Date        string  `json:"entry_date"`
	TotalLiters float64 `json:"total_liters"`
	AvgFat      float64 `json:"avg_fat"`
	AvgSNF      float64 `json:"avg_snf"`
	TotalAmount float64 `json:"total_amount"`
}

// Summarize folds entries into a single Summary. An empty input yields
// the zero Summary.
func Summarize(list []entries.Entry) Summary {
	var (
		s      Summary
		fatSum float64
		snfSum float64
	)
	for _, e := range list {
		s.TotalLiters += e.QtyLiters
		s.TotalAmount += e.Amount
		fatSum += e.Fat * e.QtyLiters
		snfSum += e.SNF * e.QtyLiters
	}
	if s.TotalLiters > 0 {
		s.AvgFat = pricing.Round2(fatSum / s.TotalLiters)
		s.AvgSNF = pricing.Round2(snfSum / s.TotalLiters)
	}
	s.TotalLiters = pricing.Round2(s.TotalLiters)
	s.TotalAmount = pricing.Round2(s.TotalAmount)
	return s
}

type dailyAcc struct {
	liters float64
	fatSum float64
	snfSum float64
	amount float64
	count  int
}

// Daily groups entries by date and returns one row per date, ordered
// by date ascending.
func Daily(list []entries.Entry) []DailyRow {
	byDate := make(map[string]*dailyAcc)
	for _, e := range list {
		acc, ok := byDate[e.Date]
		if !ok {
			acc = &dailyAcc{}
			byDate[e.Date] = acc
		}
		acc.liters += e.QtyLiters
		acc.fatSum += e.Fat
		acc.snfSum += e.SNF
		acc.amount += e.Amount
		acc.count++
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([]DailyRow, 0, len(dates))
	for _, d := range dates {
		acc := byDate[d]
		n := float64(acc.count)
		rows = append(rows, DailyRow{
			Date:        d,
			TotalLiters: pricing.Round2(acc.liters),
			AvgFat:      pricing.Round2(acc.fatSum / n),
			AvgSNF:      pricing.Round2(acc.snfSum / n),
			TotalAmount: pricing.Round2(acc.amount),
		})
	}
	return rows
}
