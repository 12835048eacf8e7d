package crm

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed CRM store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ListCustomers returns one page of customers with economic indicators
// merged in row-by-row, the way the dashboard frontend consumes them.
func (s *PostgresStore) ListCustomers(ctx context.Context, q ListQuery) (CustomerPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	search := "%"
	if q.Search != "" {
		search = "%" + q.Search + "%"
	}

	rows, err := s.pool.Query(ctx, `
		SELECT
			c.id, c.name, c.age, c.job, c.marital, c.education, c."default",
			c.balance, c.housing, c.loan, c.contact, c.day, c.month,
			c.duration, c.campaign, c.pdays, c.previous, c.poutcome, c.probability,
			e.emp_var_rate, e.cons_price_idx, e.cons_conf_idx, e.euribor3m, e.nr_employed,
			count(*) OVER () AS total
		FROM customers c
		LEFT JOIN economic_indicators e ON e.customer_id = c.id
		WHERE c.name ILIKE $1
		  AND ($2 = '' OR c.job = $2)
		  AND ($3 = '' OR c.marital = $3)
		ORDER BY c.id
		LIMIT $4 OFFSET $5
	`, search, q.Job, q.Marital, limit, offset)
	if err != nil {
		return CustomerPage{}, fmt.Errorf("crm: list customers: %w", err)
	}
	defer rows.Close()

	page := CustomerPage{Customers: []Customer{}}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Age, &c.Job, &c.Marital, &c.Education, &c.Default,
			&c.Balance, &c.Housing, &c.Loan, &c.Contact, &c.Day, &c.Month,
			&c.Duration, &c.Campaign, &c.PDays, &c.Previous, &c.POutcome, &c.Probability,
			&c.EmpVarRate, &c.ConsPriceIdx, &c.ConsConfIdx, &c.Euribor3m, &c.NrEmployed,
			&page.Total,
		); err != nil {
			return CustomerPage{}, fmt.Errorf("crm: scan customer: %w", err)
		}
		page.Customers = append(page.Customers, c)
	}
	if err := rows.Err(); err != nil {
		return CustomerPage{}, fmt.Errorf("crm: list customers: %w", err)
	}

	return page, nil
}

// AddCustomer inserts a customer row.
func (s *PostgresStore) AddCustomer(ctx context.Context, c Customer) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO customers (
			id, name, age, job, marital, education, "default",
			balance, housing, loan, contact, day, month,
			duration, campaign, pdays, previous, poutcome
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18
		)
	`, c.ID, c.Name, c.Age, c.Job, c.Marital, c.Education, c.Default,
		c.Balance, c.Housing, c.Loan, c.Contact, c.Day, c.Month,
		c.Duration, c.Campaign, c.PDays, c.Previous, c.POutcome)
	if err != nil {
		return fmt.Errorf("crm: add customer: %w", err)
	}
	return nil
}

// AddEconomicIndicator inserts a macro-indicator row linked to a customer.
func (s *PostgresStore) AddEconomicIndicator(ctx context.Context, customerID string, e EconomicIndicator) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO economic_indicators (
			customer_id, emp_var_rate, cons_price_idx, cons_conf_idx, euribor3m, nr_employed
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, customerID, e.EmpVarRate, e.ConsPriceIdx, e.ConsConfIdx, e.Euribor3m, e.NrEmployed)
	if err != nil {
		return fmt.Errorf("crm: add economic indicator: %w", err)
	}
	return nil
}

// UpdateCustomerProbability sets the predicted conversion probability.
func (s *PostgresStore) UpdateCustomerProbability(ctx context.Context, id string, probability float64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE customers
		SET probability = $2
		WHERE id = $1
	`, id, probability)
	if err != nil {
		return fmt.Errorf("crm: update probability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// NumericColumnStats returns average and grand total for an allow-listed
// numeric column.
func (s *PostgresStore) NumericColumnStats(ctx context.Context, column string) (float64, float64, error) {
	if !AllowedNumericColumn(column) {
		return 0, 0, ErrInvalidColumn
	}

	var average, total *float64
	// Column name is validated against the allow list above.
	query := fmt.Sprintf(`SELECT AVG(%s), SUM(%s) FROM customers`, column, column)
	if err := s.pool.QueryRow(ctx, query).Scan(&average, &total); err != nil {
		return 0, 0, fmt.Errorf("crm: column stats: %w", err)
	}

	var avg, tot float64
	if average != nil {
		avg = *average
	}
	if total != nil {
		tot = *total
	}
	return avg, tot, nil
}

// AddNote creates a note and its customer/sales link.
func (s *PostgresStore) AddNote(ctx context.Context, in NewNoteInput) (string, error) {
	var salesID string
	err := s.pool.QueryRow(ctx, `
		SELECT id FROM users WHERE username = $1
	`, in.Sales).Scan(&salesID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrSalesNotFound
	}
	if err != nil {
		return "", fmt.Errorf("crm: resolve sales user: %w", err)
	}

	noteID := NewNoteID()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("crm: begin add note: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO notes (id, title, body, created_at)
		VALUES ($1, $2, $3, $4)
	`, noteID, in.Title, in.Body, in.CreatedAt); err != nil {
		return "", fmt.Errorf("crm: insert note: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO customer_sales_notes (id, customer_id, sales_id, note_id)
		VALUES ($1, $2, $3, $4)
	`, newLinkID(), in.CustomerID, salesID, noteID); err != nil {
		// FK violation on customer_id means the customer does not exist.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return "", ErrCustomerNotFound
		}
		return "", fmt.Errorf("crm: link note: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("crm: commit add note: %w", err)
	}

	return noteID, nil
}

// EditNote updates title and body of an existing note.
func (s *PostgresStore) EditNote(ctx context.Context, id, title, body string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notes
		SET title = $2, body = $3
		WHERE id = $1
	`, id, title, body)
	if err != nil {
		return fmt.Errorf("crm: edit note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// DeleteNote removes a note and its link rows.
func (s *PostgresStore) DeleteNote(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM notes
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("crm: delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// DashboardAggregates runs the dashboard aggregation queries.
func (s *PostgresStore) DashboardAggregates(ctx context.Context) (DashboardAggregates, error) {
	var agg DashboardAggregates

	err := s.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE poutcome = 'success'),
			count(*) FILTER (WHERE poutcome = 'failure'),
			count(*) FILTER (WHERE poutcome NOT IN ('success', 'failure')),
			count(*) FILTER (WHERE y = 'yes'),
			count(*) FILTER (WHERE y <> 'yes'),
			COALESCE(AVG(balance) FILTER (WHERE y = 'yes'), 0),
			COALESCE(AVG(balance) FILTER (WHERE y <> 'yes'), 0),
			count(*) FILTER (WHERE "default" = 'no'),
			count(*) FILTER (WHERE "default" <> 'no')
		FROM customers
	`).Scan(
		&agg.TotalCustomers,
		&agg.Promotion.Success, &agg.Promotion.Failure, &agg.Promotion.Other,
		&agg.Priority.Priority, &agg.Priority.NonPriority,
		&agg.Deposit.PriorityAvg, &agg.Deposit.NonPriorityAvg,
		&agg.Credit.Success, &agg.Credit.NonSuccess,
	)
	if err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: dashboard totals: %w", err)
	}

	agg.CustomerDistribution, err = s.bucketCounts(ctx, `
		SELECT education, count(*) FROM customers GROUP BY education ORDER BY count(*) DESC
	`)
	if err != nil {
		return DashboardAggregates{}, err
	}

	agg.CampaignDistribution, err = s.bucketCounts(ctx, `
		SELECT campaign::text, count(*) FROM customers GROUP BY campaign ORDER BY campaign
	`)
	if err != nil {
		return DashboardAggregates{}, err
	}

	agg.JobDepositCounts, err = s.bucketCounts(ctx, `
		SELECT job, count(*) FILTER (WHERE y = 'yes')
		FROM customers GROUP BY job ORDER BY job
	`)
	if err != nil {
		return DashboardAggregates{}, err
	}

	jobRows, err := s.pool.Query(ctx, `
		SELECT job, AVG(balance) FILTER (WHERE y = 'yes')
		FROM customers
		GROUP BY job
		HAVING AVG(balance) FILTER (WHERE y = 'yes') IS NOT NULL
		ORDER BY 2 DESC
		LIMIT 5
	`)
	if err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: top balance by job: %w", err)
	}
	defer jobRows.Close()
	for jobRows.Next() {
		var ja JobAverage
		if err := jobRows.Scan(&ja.Job, &ja.AvgBalance); err != nil {
			return DashboardAggregates{}, fmt.Errorf("crm: scan job average: %w", err)
		}
		agg.TopAvgBalanceByJob = append(agg.TopAvgBalanceByJob, ja)
	}
	if err := jobRows.Err(); err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: top balance by job: %w", err)
	}

	contactRows, err := s.pool.Query(ctx, `
		SELECT
			contact,
			count(*),
			count(*) FILTER (WHERE y = 'yes'),
			ROUND(100.0 * count(*) FILTER (WHERE y = 'yes') / count(*), 2)
		FROM customers
		GROUP BY contact
		ORDER BY contact
	`)
	if err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: contact distribution: %w", err)
	}
	defer contactRows.Close()
	for contactRows.Next() {
		var cs ContactStats
		if err := contactRows.Scan(&cs.Contact, &cs.TotalContacted, &cs.TotalSuccess, &cs.SuccessRatePct); err != nil {
			return DashboardAggregates{}, fmt.Errorf("crm: scan contact stats: %w", err)
		}
		agg.ContactDistribution = append(agg.ContactDistribution, cs)
	}
	if err := contactRows.Err(); err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: contact distribution: %w", err)
	}

	agg.DailyTrends, err = s.trendPoints(ctx, `
		SELECT day, count(*),
			count(*) FILTER (WHERE y = 'yes'),
			ROUND(100.0 * count(*) FILTER (WHERE y = 'yes') / count(*), 2)
		FROM customers
		GROUP BY day
	`)
	if err != nil {
		return DashboardAggregates{}, err
	}

	agg.MonthlyTrends, err = s.trendPoints(ctx, `
		SELECT month, count(*),
			count(*) FILTER (WHERE y = 'yes'),
			ROUND(100.0 * count(*) FILTER (WHERE y = 'yes') / count(*), 2)
		FROM customers
		GROUP BY month
	`)
	if err != nil {
		return DashboardAggregates{}, err
	}

	creditRows, err := s.pool.Query(ctx, `
		SELECT job,
			count(*) FILTER (WHERE "default" = 'yes'),
			count(*) FILTER (WHERE "default" = 'no')
		FROM customers
		GROUP BY job
		ORDER BY job
	`)
	if err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: credit status distribution: %w", err)
	}
	defer creditRows.Close()
	for creditRows.Next() {
		var b CreditStatusBucket
		if err := creditRows.Scan(&b.Name, &b.Defaulted, &b.Clear); err != nil {
			return DashboardAggregates{}, fmt.Errorf("crm: scan credit status: %w", err)
		}
		agg.CreditStatusDistribution = append(agg.CreditStatusDistribution, b)
	}
	if err := creditRows.Err(); err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: credit status distribution: %w", err)
	}

	durationRows, err := s.pool.Query(ctx, `
		SELECT contact,
			ROUND(AVG(duration)::numeric, 2),
			RANK() OVER (ORDER BY AVG(duration) DESC),
			CASE
				WHEN AVG(duration) >= 360 THEN 'long'
				WHEN AVG(duration) >= 180 THEN 'medium'
				ELSE 'short'
			END
		FROM customers
		GROUP BY contact
		ORDER BY 3
	`)
	if err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: contact duration: %w", err)
	}
	defer durationRows.Close()
	for durationRows.Next() {
		var d ContactDuration
		if err := durationRows.Scan(&d.ContactType, &d.AvgDuration, &d.Rank, &d.DurationBucket); err != nil {
			return DashboardAggregates{}, fmt.Errorf("crm: scan contact duration: %w", err)
		}
		agg.ContactDuration = append(agg.ContactDuration, d)
	}
	if err := durationRows.Err(); err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: contact duration: %w", err)
	}

	effRows, err := s.pool.Query(ctx, `
		SELECT contact, poutcome, count(*),
			count(*) FILTER (WHERE y = 'yes'),
			ROUND(100.0 * count(*) FILTER (WHERE y = 'yes') / count(*), 2)
		FROM customers
		GROUP BY contact, poutcome
		ORDER BY contact, poutcome
	`)
	if err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: contact effectiveness: %w", err)
	}
	defer effRows.Close()
	for effRows.Next() {
		var e ContactEffectiveness
		if err := effRows.Scan(&e.Contact, &e.POutcome, &e.TotalCustomers, &e.DepositSuccess, &e.SuccessRatePct); err != nil {
			return DashboardAggregates{}, fmt.Errorf("crm: scan contact effectiveness: %w", err)
		}
		agg.ContactEffectivity = append(agg.ContactEffectivity, e)
	}
	if err := effRows.Err(); err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: contact effectiveness: %w", err)
	}

	statsRows, err := s.pool.Query(ctx, `
		SELECT campaign, count(*),
			count(*) FILTER (WHERE y = 'yes'),
			ROUND(100.0 * count(*) FILTER (WHERE y = 'yes') / count(*), 2)
		FROM customers
		GROUP BY campaign
		ORDER BY campaign
	`)
	if err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: campaign contact stats: %w", err)
	}
	defer statsRows.Close()
	for statsRows.Next() {
		var c CampaignContactStats
		if err := statsRows.Scan(&c.NumberOfContacts, &c.TotalCustomers, &c.SuccessCount, &c.SuccessRatePct); err != nil {
			return DashboardAggregates{}, fmt.Errorf("crm: scan campaign contact stats: %w", err)
		}
		agg.CampaignContactStats = append(agg.CampaignContactStats, c)
	}
	if err := statsRows.Err(); err != nil {
		return DashboardAggregates{}, fmt.Errorf("crm: campaign contact stats: %w", err)
	}

	return agg, nil
}

func (s *PostgresStore) trendPoints(ctx context.Context, query string) ([]TrendPoint, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("crm: trend query: %w", err)
	}
	defer rows.Close()

	var out []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Label, &p.TotalContacted, &p.Subscribed, &p.SuccessRatePct); err != nil {
			return nil, fmt.Errorf("crm: scan trend point: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("crm: trend query: %w", err)
	}

	return out, nil
}

func (s *PostgresStore) bucketCounts(ctx context.Context, query string) ([]BucketCount, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("crm: distribution query: %w", err)
	}
	defer rows.Close()

	var out []BucketCount
	for rows.Next() {
		var b BucketCount
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, fmt.Errorf("crm: scan distribution: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("crm: distribution query: %w", err)
	}

	return out, nil
}
