package orders

import "agribridge/models"

// transitions is the allowed predecessor -> successor table. Every non-terminal
// state may move forward one step or be cancelled; Delivered and Cancelled are
// terminal. The table replaces the free-choice selector the admin surface used
// to expose.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusOrderPlaced: {
		models.StatusProcessing,
		models.StatusRiderDispatched,
		models.StatusCancelled,
	},
	models.StatusProcessing: {
		models.StatusRiderDispatched,
		models.StatusCancelled,
	},
	models.StatusRiderDispatched: {
		models.StatusProductsPicked,
		models.StatusCancelled,
	},
	models.StatusProductsPicked: {
		models.StatusOutForDelivery,
		models.StatusCancelled,
	},
	models.StatusOutForDelivery: {
		models.StatusDelivered,
		models.StatusCancelled,
	},
	models.StatusDelivered: {},
	models.StatusCancelled: {},
}

// IsValidStatus reports whether s is one of the named workflow statuses.
func IsValidStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transitions leave s.
func IsTerminal(s models.OrderStatus) bool {
	return len(transitions[s]) == 0 && IsValidStatus(s)
}

// CanTransition reports whether from -> to is a legal move. Re-asserting the
// current status is allowed (no-op in effect, still logged to history).
func CanTransition(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
