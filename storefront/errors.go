package storefront

import "fmt"

// StateTransitionError means a checkout-flow operation was attempted from the wrong
// stage, or with its prerequisite fields unmet.
type StateTransitionError struct {
	Stage     CheckoutStage
	Operation string
	Reason    string
}

func (e StateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s at checkout stage %s: %s", e.Operation, e.Stage, e.Reason)
}
