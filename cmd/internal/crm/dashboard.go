package crm

import (
	"sort"
	"strings"
)

// Trend values surfaced on dashboard stat cards.
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// PromotionCounts buckets customers by previous-campaign outcome.
type PromotionCounts struct {
	Success int64 `json:"success"`
	Failure int64 `json:"failure"`
	Other   int64 `json:"other"`
}

// Status labels the overall promotion outcome.
func (p PromotionCounts) Status() string {
	if p.Success >= p.Failure {
		return "Good"
	}
	return "Bad"
}

// PriorityCounts splits customers into priority and non-priority segments.
type PriorityCounts struct {
	Priority    int64 `json:"priority"`
	NonPriority int64 `json:"nonpriority"`
}

// DepositAverages carries average balances per priority segment.
type DepositAverages struct {
	PriorityAvg    float64 `json:"priority_avg"`
	NonPriorityAvg float64 `json:"nonpriority_avg"`
}

// CreditCounts splits customers by credit standing.
type CreditCounts struct {
	Success    int64 `json:"success"`
	NonSuccess int64 `json:"nonsuccess"`
}

// BucketCount is one labeled bucket of a distribution.
type BucketCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// JobAverage is an average balance per job segment.
type JobAverage struct {
	Job        string  `json:"job"`
	AvgBalance float64 `json:"avg_balance"`
}

// ContactStats summarizes outcome rates per contact channel.
type ContactStats struct {
	Contact        string  `json:"contact"`
	TotalContacted int64   `json:"total_contacted"`
	TotalSuccess   int64   `json:"total_success"`
	SuccessRatePct float64 `json:"success_rate_percent"`
}

// TrendPoint is one period of the promotion trend series.
type TrendPoint struct {
	Label          string  `json:"label"`
	TotalContacted int64   `json:"total_contacted"`
	Subscribed     int64   `json:"subscribed"`
	SuccessRatePct float64 `json:"success_rate_pct"`
}

// PromotionTrends pairs the daily and monthly trend series.
type PromotionTrends struct {
	Daily   []TrendPoint `json:"daily"`
	Monthly []TrendPoint `json:"monthly"`
}

// CreditStatusBucket splits one job segment by credit standing.
type CreditStatusBucket struct {
	Name      string `json:"name"`
	Defaulted int64  `json:"defaulted"`
	Clear     int64  `json:"clear"`
}

// ContactDuration is the average call length for one contact channel,
// ranked against the other channels.
type ContactDuration struct {
	ContactType    string  `json:"contact_type"`
	AvgDuration    float64 `json:"avg_duration"`
	Rank           int64   `json:"rank"`
	DurationBucket string  `json:"duration_bucket"`
}

// ContactEffectiveness is the subscription rate for one contact channel
// and previous-campaign outcome pair.
type ContactEffectiveness struct {
	Contact        string  `json:"contact"`
	POutcome       string  `json:"poutcome"`
	TotalCustomers int64   `json:"total_customers"`
	DepositSuccess int64   `json:"deposit_success"`
	SuccessRatePct float64 `json:"success_rate_percent"`
}

// CampaignContactStats is the subscription rate per number of campaign
// contacts.
type CampaignContactStats struct {
	NumberOfContacts int64   `json:"number_of_contacts"`
	TotalCustomers   int64   `json:"total_customers"`
	SuccessCount     int64   `json:"success_count"`
	SuccessRatePct   float64 `json:"success_rate_percent"`
}

// StatCard is one headline figure on the dashboard.
type StatCard struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Value any    `json:"value"`
	Trend string `json:"trend,omitempty"`
}

// DistData groups the distribution charts.
type DistData struct {
	CustomerDistribution []BucketCount          `json:"customerDistribution"`
	CampaignDistribution []BucketCount          `json:"campaignDistribution"`
	PromotionTrends      PromotionTrends        `json:"promotionTrends"`
	CreditStatusDist     []CreditStatusBucket   `json:"creditStatusDistribution"`
	JobDepositCounts     []BucketCount          `json:"jobDepositDistribution"`
	TopAvgBalanceByJob   []JobAverage           `json:"topAverageBalanceByJob"`
	ContactDuration      []ContactDuration      `json:"contactDuration"`
	ContactEffectivity   []ContactEffectiveness `json:"contactEffectivity"`
	CampaignContactStats []CampaignContactStats `json:"campaignContactStats"`
	ContactDistribution  []ContactStats         `json:"contactDistribution"`
}

// DashboardData is the dashboard payload handed to the transport.
type DashboardData struct {
	StatsData []StatCard `json:"statsData"`
	DistData  DistData   `json:"distData"`
}

func promotionTrend(p PromotionCounts) string {
	total := p.Success + p.Failure + p.Other
	if total == 0 {
		return TrendNeutral
	}

	successRate := float64(p.Success) / float64(total)
	failureRate := float64(p.Failure) / float64(total)

	switch {
	case successRate > failureRate:
		return TrendUp
	case successRate < failureRate:
		return TrendDown
	default:
		return TrendNeutral
	}
}

func priorityTrend(p PriorityCounts) string {
	total := p.Priority + p.NonPriority
	if total == 0 {
		return TrendNeutral
	}

	switch {
	case p.Priority > p.NonPriority:
		return TrendUp
	case p.Priority < p.NonPriority:
		return TrendDown
	default:
		return TrendNeutral
	}
}

func creditTrend(c CreditCounts) string {
	total := c.Success + c.NonSuccess
	if total == 0 {
		return TrendNeutral
	}

	switch {
	case c.Success > c.NonSuccess:
		return TrendUp
	case c.Success < c.NonSuccess:
		return TrendDown
	default:
		return TrendNeutral
	}
}

func balanceTrend(d DepositAverages) string {
	switch {
	case d.PriorityAvg > d.NonPriorityAvg:
		return TrendUp
	case d.PriorityAvg < d.NonPriorityAvg:
		return TrendDown
	default:
		return TrendNeutral
	}
}

// BuildDashboard derives stat cards and trends from raw aggregates.
func BuildDashboard(agg DashboardAggregates) DashboardData {
	return DashboardData{
		StatsData: []StatCard{
			{
				ID:    "totalCustomers",
				Title: "Total Customers",
				Value: agg.TotalCustomers,
			},
			{
				ID:    "goodPromotion",
				Title: "Promotion Status",
				Value: agg.Promotion.Status(),
				Trend: promotionTrend(agg.Promotion),
			},
			{
				ID:    "totalPriority",
				Title: "Total Priority Customer",
				Value: agg.Priority.Priority,
				Trend: priorityTrend(agg.Priority),
			},
			{
				ID:    "balancePriority",
				Title: "Priority Customer Avg. Balance",
				Value: agg.Deposit.PriorityAvg,
				Trend: balanceTrend(agg.Deposit),
			},
			{
				ID:    "successfulCredit",
				Title: "Total Successful Credits",
				Value: agg.Credit.Success,
				Trend: creditTrend(agg.Credit),
			},
		},
		DistData: DistData{
			CustomerDistribution: agg.CustomerDistribution,
			CampaignDistribution: agg.CampaignDistribution,
			PromotionTrends: PromotionTrends{
				Daily:   sortTrendPoints(agg.DailyTrends, weekdayOrder),
				Monthly: sortTrendPoints(agg.MonthlyTrends, monthOrder),
			},
			CreditStatusDist:     agg.CreditStatusDistribution,
			JobDepositCounts:     agg.JobDepositCounts,
			TopAvgBalanceByJob:   agg.TopAvgBalanceByJob,
			ContactDuration:      agg.ContactDuration,
			ContactEffectivity:   agg.ContactEffectivity,
			CampaignContactStats: agg.CampaignContactStats,
			ContactDistribution:  agg.ContactDistribution,
		},
	}
}

var (
	weekdayOrder = []string{"mon", "tue", "wed", "thu", "fri"}
	monthOrder   = []string{
		"jan", "feb", "mar", "apr", "may", "jun",
		"jul", "aug", "sep", "oct", "nov", "dec",
	}
)

// sortTrendPoints orders trend points chronologically by label. Labels
// outside the known order sort last, keeping their relative order.
func sortTrendPoints(points []TrendPoint, order []string) []TrendPoint {
	rank := make(map[string]int, len(order))
	for i, label := range order {
		rank[label] = i
	}
	pos := func(label string) int {
		if i, ok := rank[strings.ToLower(label)]; ok {
			return i
		}
		return len(order)
	}

	out := append([]TrendPoint(nil), points...)
	sort.SliceStable(out, func(i, j int) bool {
		return pos(out[i].Label) < pos(out[j].Label)
	})
	return out
}
