package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/gyms", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/gyms", "200"))
	assert.Equal(t, float64(1), count)
}

func TestRecordReservation(t *testing.T) {
	ReservationsTotal.Reset()

	RecordReservation("accepted")
	RecordReservation("accepted")
	RecordReservation("slot_full")

	accepted := testutil.ToFloat64(ReservationsTotal.WithLabelValues("accepted"))
	full := testutil.ToFloat64(ReservationsTotal.WithLabelValues("slot_full"))

	assert.Equal(t, float64(2), accepted)
	assert.Equal(t, float64(1), full)
}

func TestRecordDeletion(t *testing.T) {
	DeletionsTotal.Reset()

	RecordDeletion("customer")
	RecordDeletion("gym")

	assert.Equal(t, float64(1), testutil.ToFloat64(DeletionsTotal.WithLabelValues("customer")))
	assert.Equal(t, float64(1), testutil.ToFloat64(DeletionsTotal.WithLabelValues("gym")))
}

func TestRecordRefundIgnoresNonPositive(t *testing.T) {
	before := testutil.ToFloat64(RefundedCentsTotal)

	RecordRefund(0)
	RecordRefund(-100)
	assert.Equal(t, before, testutil.ToFloat64(RefundedCentsTotal))

	RecordRefund(250)
	assert.Equal(t, before+250, testutil.ToFloat64(RefundedCentsTotal))
}
