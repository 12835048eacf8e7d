package crm

import "context"

// DashboardAggregates is the raw result of the dashboard queries; trend
// derivation happens in BuildDashboard.
type DashboardAggregates struct {
	TotalCustomers int64
	Promotion      PromotionCounts
	Priority       PriorityCounts
	Deposit        DepositAverages
	Credit         CreditCounts

	CustomerDistribution []BucketCount
	CampaignDistribution []BucketCount
	JobDepositCounts     []BucketCount
	TopAvgBalanceByJob   []JobAverage
	ContactDistribution  []ContactStats

	// Unordered trend series; BuildDashboard sorts them chronologically.
	DailyTrends   []TrendPoint
	MonthlyTrends []TrendPoint

	CreditStatusDistribution []CreditStatusBucket
	ContactDuration          []ContactDuration
	ContactEffectivity       []ContactEffectiveness
	CampaignContactStats     []CampaignContactStats
}

// Store is the CRM persistence boundary.
type Store interface {
	// ListCustomers returns one page of customers with economic indicators
	// merged in, plus the unfiltered total.
	ListCustomers(ctx context.Context, q ListQuery) (CustomerPage, error)

	// AddCustomer inserts a customer row.
	AddCustomer(ctx context.Context, c Customer) error

	// AddEconomicIndicator inserts a macro-indicator row linked to a
	// customer.
	AddEconomicIndicator(ctx context.Context, customerID string, e EconomicIndicator) error

	// UpdateCustomerProbability sets the model-predicted conversion
	// probability for a customer.
	UpdateCustomerProbability(ctx context.Context, id string, probability float64) error

	// NumericColumnStats returns the average and grand total of an
	// allow-listed numeric customer column.
	NumericColumnStats(ctx context.Context, column string) (average, total float64, err error)

	// AddNote creates a note and its customer/sales link; the sales
	// username must resolve to a registered user.
	AddNote(ctx context.Context, in NewNoteInput) (noteID string, err error)

	// EditNote updates title and body of an existing note.
	EditNote(ctx context.Context, id, title, body string) error

	// DeleteNote removes a note. Returns ErrNoteNotFound when absent.
	DeleteNote(ctx context.Context, id string) error

	// DashboardAggregates runs the dashboard aggregation queries.
	DashboardAggregates(ctx context.Context) (DashboardAggregates, error)
}
