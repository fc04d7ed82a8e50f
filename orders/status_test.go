package orders

import (
	"testing"

	"agribridge/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.StatusOrderPlaced, models.StatusProcessing, true},
		{models.StatusOrderPlaced, models.StatusRiderDispatched, true},
		{models.StatusOrderPlaced, models.StatusCancelled, true},
		{models.StatusProcessing, models.StatusRiderDispatched, true},
		{models.StatusRiderDispatched, models.StatusProductsPicked, true},
		{models.StatusProductsPicked, models.StatusOutForDelivery, true},
		{models.StatusOutForDelivery, models.StatusDelivered, true},

		// cancel from any live state
		{models.StatusProcessing, models.StatusCancelled, true},
		{models.StatusOutForDelivery, models.StatusCancelled, true},

		// no skipping ahead
		{models.StatusOrderPlaced, models.StatusDelivered, false},
		{models.StatusProcessing, models.StatusOutForDelivery, false},
		{models.StatusRiderDispatched, models.StatusDelivered, false},

		// no moving backwards
		{models.StatusProcessing, models.StatusOrderPlaced, false},
		{models.StatusDelivered, models.StatusOutForDelivery, false},

		// terminal states stay terminal
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusOrderPlaced, false},

		// re-asserting the current status is allowed
		{models.StatusProcessing, models.StatusProcessing, true},
		{models.StatusDelivered, models.StatusDelivered, true},
	}

	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.StatusOrderPlaced,
		models.StatusProcessing,
		models.StatusRiderDispatched,
		models.StatusProductsPicked,
		models.StatusOutForDelivery,
		models.StatusDelivered,
		models.StatusCancelled,
	} {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false", s)
		}
	}
	if IsValidStatus("Shipped") {
		t.Error(`IsValidStatus("Shipped") = true, want false`)
	}
	if IsValidStatus("") {
		t.Error(`IsValidStatus("") = true, want false`)
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(models.StatusDelivered) || !IsTerminal(models.StatusCancelled) {
		t.Error("Delivered and Cancelled must be terminal")
	}
	if IsTerminal(models.StatusOrderPlaced) || IsTerminal(models.StatusOutForDelivery) {
		t.Error("live statuses must not be terminal")
	}
	if IsTerminal("Shipped") {
		t.Error("unknown statuses are not terminal, they are invalid")
	}
}
