// errors.go - Error kinds surfaced by the gadget library.

package gadgets

import "errors"

// ErrPrecondition is returned when a gadget is invoked with arguments that
// make the statement meaningless, before any gate is allocated. It signals a
// caller bug, not a failed proof.
var ErrPrecondition = errors.New("gadgets: gadget precondition violated")
