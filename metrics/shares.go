package metrics

import (
	"sort"
	"strconv"

	"listen-heatmap/models"
)

// fieldShare is a ShareStrategy over one record field.
type fieldShare struct {
	name  string
	title string
	key   func(models.PlayRecord) string
}

func (f fieldShare) Name() string                   { return f.name }
func (f fieldShare) Title() string                  { return f.title }
func (f fieldShare) Key(r models.PlayRecord) string { return f.key(r) }

func defaultShares() []ShareStrategy {
	return []ShareStrategy{
		fieldShare{"platform", "platform shares", func(r models.PlayRecord) string { return r.Platform }},
		fieldShare{"shuffle", "shuffle shares", func(r models.PlayRecord) string { return strconv.FormatBool(r.Shuffle) }},
		fieldShare{"reason_end", "reason_end shares", func(r models.PlayRecord) string { return r.ReasonEnd }},
		fieldShare{"conn_country", "conn_country shares", func(r models.PlayRecord) string { return r.ConnCountry }},
	}
}

// Shares counts records per key, largest first. Ties are ordered by label.
func Shares(records []models.PlayRecord, s ShareStrategy) []models.Share {
	counts := make(map[string]int)
	for _, r := range records {
		counts[s.Key(r)]++
	}

	shares := make([]models.Share, 0, len(counts))
	for label, n := range counts {
		shares = append(shares, models.Share{
			Label:   label,
			Count:   n,
			Percent: 100 * float64(n) / float64(len(records)),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Label < shares[j].Label
	})
	return shares
}
