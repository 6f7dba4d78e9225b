package admin

// Refund is one customer's compensation for future bookings destroyed by a
// gym deletion.
type Refund struct {
	CustomerID     int    `db:"customer_id" json:"customer_id"`
	Email          string `db:"email" json:"-"`
	Name           string `db:"name" json:"-"`
	FutureBookings int    `db:"future_bookings" json:"future_bookings"`
	CostCents      int64  `db:"cost_cents" json:"cost_cents"`
}

func (r Refund) AmountCents() int64 {
	return int64(r.FutureBookings) * r.CostCents
}

// DeletionResult reports what a cascading deletion removed and refunded.
type DeletionResult struct {
	Kind    string   `json:"kind"`
	Refunds []Refund `json:"refunds,omitempty"`
}

func (d DeletionResult) RefundedCents() int64 {
	var total int64
	for _, r := range d.Refunds {
		total += r.AmountCents()
	}
	return total
}
