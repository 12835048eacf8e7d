// Package crm owns the customer, note, and dashboard surfaces of the
// lead-tracking product: parameter-validated inserts and selects over the
// customers, economic_indicators, notes, and customer_sales_notes tables,
// plus the aggregate queries behind the dashboard. It has no session or
// token concerns; request authorization happens upstream.
package crm
