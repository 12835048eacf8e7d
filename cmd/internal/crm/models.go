package crm

import "time"

// Customer mirrors a customers row plus the economic indicators merged in
// for list views.
type Customer struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Job         string   `json:"job"`
	Marital     string   `json:"marital"`
	Education   string   `json:"education"`
	Default     string   `json:"default"`
	Balance     int      `json:"balance"`
	Housing     string   `json:"housing"`
	Loan        string   `json:"loan"`
	Contact     string   `json:"contact"`
	Day         string   `json:"day"`
	Month       string   `json:"month"`
	Duration    int      `json:"duration"`
	Campaign    int      `json:"campaign"`
	PDays       int      `json:"pdays"`
	Previous    int      `json:"previous"`
	POutcome    string   `json:"poutcome"`
	Probability *float64 `json:"probability,omitempty"`

	EmpVarRate   *float64 `json:"emp_var_rate"`
	ConsPriceIdx *float64 `json:"cons_price_idx"`
	ConsConfIdx  *float64 `json:"cons_conf_idx"`
	Euribor3m    *float64 `json:"euribor3m"`
	NrEmployed   *float64 `json:"nr_employed"`
}

// EconomicIndicator is the macro context recorded alongside a customer.
type EconomicIndicator struct {
	EmpVarRate   float64 `json:"emp_var_rate"`
	ConsPriceIdx float64 `json:"cons_price_idx"`
	ConsConfIdx  float64 `json:"cons_conf_idx"`
	Euribor3m    float64 `json:"euribor3m"`
	NrEmployed   float64 `json:"nr_employed"`
}

// DefaultPageLimit is the page size used when a listing request does not
// supply one. The store applies the same fallback for callers that pass a
// zero-value ListQuery.
const DefaultPageLimit = 20

// ListQuery shapes a paged customer listing.
type ListQuery struct {
	Search  string
	Job     string
	Marital string
	Limit   int
	Offset  int
}

// CustomerPage is one page of a customer listing.
type CustomerPage struct {
	Customers []Customer `json:"customers"`
	Total     int64      `json:"total"`
}

// Note is a sales note attached to a customer via customer_sales_notes.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNoteInput carries everything needed to create a note and its
// customer/sales link in one call.
type NewNoteInput struct {
	Title      string
	Body       string
	CreatedAt  time.Time
	CustomerID string
	Sales      string // username of the sales principal
}
