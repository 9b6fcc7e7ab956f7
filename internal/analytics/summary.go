// Package analytics 访问日志统计
package analytics

import (
	"strconv"

	"portfolio/internal/visitlog"
)

// DirectReferrer 无来源时的展示标签
const DirectReferrer = "Direct"

// Summary 统计汇总，每次请求时根据全部日志重新计算
type Summary struct {
	TotalVisits        int            `json:"totalVisits"`
	UniqueVisitors     int            `json:"uniqueVisitors"`
	PageViews          map[string]int `json:"pageViews"`
	Referrers          map[string]int `json:"referrers"`
	Browsers           map[string]int `json:"browsers"`
	OS                 map[string]int `json:"os"`
	Devices            map[string]int `json:"devices"`
	Countries          map[string]int `json:"countries"`
	DailyVisits        map[string]int `json:"dailyVisits"`        // "2006-01-02"
	HourlyDistribution map[string]int `json:"hourlyDistribution"` // "0".."23"
}

func newSummary() *Summary {
	return &Summary{
		PageViews:          make(map[string]int),
		Referrers:          make(map[string]int),
		Browsers:           make(map[string]int),
		OS:                 make(map[string]int),
		Devices:            make(map[string]int),
		Countries:          make(map[string]int),
		DailyVisits:        make(map[string]int),
		HourlyDistribution: make(map[string]int),
	}
}

// Summarize 汇总日志；日期与小时均按 UTC 计算
func Summarize(records []visitlog.Record) *Summary {
	s := newSummary()
	s.TotalVisits = len(records)

	uv := make(map[string]struct{}, len(records))
	for _, r := range records {
		uv[r.ClientHash] = struct{}{}

		s.PageViews[r.Page]++

		ref := r.Referrer
		if ref == "" {
			ref = DirectReferrer
		}
		s.Referrers[ref]++

		if r.Browser != "" {
			s.Browsers[r.Browser]++
		}
		if r.OS != "" {
			s.OS[r.OS]++
		}
		if r.Device != "" {
			s.Devices[r.Device]++
		}
		if r.Country != nil && *r.Country != "" {
			s.Countries[*r.Country]++
		}

		ts := r.Timestamp.UTC()
		s.DailyVisits[ts.Format("2006-01-02")]++
		s.HourlyDistribution[strconv.Itoa(ts.Hour())]++
	}
	s.UniqueVisitors = len(uv)

	return s
}
