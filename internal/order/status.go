package order

import (
	"fmt"
	"strings"

	"github.com/safar/nava-store/internal/models"
)

// Action names an admin status change.
type Action string

const (
	ActionResetToPlaced   Action = "reset-to-placed"
	ActionPaymentReceived Action = "payment_received"
	ActionDispatched      Action = "dispatched"
	ActionReached         Action = "reached"
)

// actionAliases maps older form values onto their actions.
var actionAliases = map[string]Action{
	"got": ActionResetToPlaced,
}

// transition moves an order to `to`. An empty from admits any status.
type transition struct {
	from []models.OrderStatus
	to   models.OrderStatus
}

var transitions = map[Action]transition{
	ActionResetToPlaced:   {to: models.OrderStatusPlaced},
	ActionPaymentReceived: {from: []models.OrderStatus{models.OrderStatusPlaced}, to: models.OrderStatusConfirmed},
	ActionDispatched:      {from: []models.OrderStatus{models.OrderStatusConfirmed}, to: models.OrderStatusDispatched},
	ActionReached:         {from: []models.OrderStatus{models.OrderStatusDispatched}, to: models.OrderStatusReached},
}

func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	if alias, ok := actionAliases[s]; ok {
		return alias, nil
	}
	if _, ok := transitions[Action(s)]; ok {
		return Action(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// StatusIndex is the order's position in the status progression, 0 for an
// unrecognised status.
func StatusIndex(o *models.Order) int {
	return o.Status.Index()
}

const deliveredMessage = "Order Delivered"

// Progress is what a status view shows for one order.
type Progress struct {
	Steps            []models.OrderStatus `json:"steps"`
	CurrentIndex     int                  `json:"current_index"`
	DeliveredMessage string               `json:"delivered_message,omitempty"`
}

func ProgressOf(o *models.Order) Progress {
	p := Progress{
		Steps:        models.OrderStatusSteps,
		CurrentIndex: StatusIndex(o),
	}
	if o.Status == models.OrderStatusReached {
		p.DeliveredMessage = deliveredMessage
	}
	return p
}
