package workflow

import (
	"context"

	"github.com/asaskevich/EventBus"
)

const focusTopicPrefix = "screen:focus:"

// FocusTopic is the bus topic published whenever the named screen regains focus.
func FocusTopic(screen string) string {
	return focusTopicPrefix + screen
}

// Focus tells the named screen it is visible again.
func Focus(ctx context.Context, bus EventBus.Bus, screen string) {
	bus.Publish(FocusTopic(screen), ctx)
}

// BusNavigator returns to Target by publishing its focus event.
type BusNavigator struct {
	Bus    EventBus.Bus
	Target string
}

func (n BusNavigator) Back(ctx context.Context) {
	Focus(ctx, n.Bus, n.Target)
}
