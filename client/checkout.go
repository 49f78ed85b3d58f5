package client

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// CheckoutState tracks the submission flow.
type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s CheckoutState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// NoticeDuration is how long the success notification stays visible.
const NoticeDuration = 3200 * time.Millisecond

var contactRE = regexp.MustCompile(`^[0-9]{10}$`)

// CheckoutForm is the buyer information collected before submission.
type CheckoutForm struct {
	Name     string
	Location string
	Contact  string
}

// Notice is a transient user-facing message.
type Notice struct {
	Message string
	Error   bool
	Until   time.Time // auto-dismiss deadline
}

// Checkout runs the order submission flow:
//
//	Idle → Validating → Submitting → {Succeeded, Failed} → Idle
//
// Validation collects every violation before blocking, so the form can
// show all field errors at once. A blocked submission never reaches the
// network. Success clears the cart; failure keeps it for retry.
type Checkout struct {
	cart *Cart
	api  *API
	now  func() time.Time

	state       CheckoutState
	fieldErrors map[string]string
	notice      *Notice
}

func NewCheckout(cart *Cart, api *API) *Checkout {
	return &Checkout{cart: cart, api: api, now: time.Now, state: StateIdle}
}

// State returns the current flow state.
func (c *Checkout) State() CheckoutState { return c.state }

// FieldErrors returns the violations from the last validation pass.
func (c *Checkout) FieldErrors() map[string]string { return c.fieldErrors }

// Notice returns the current notification, or nil when dismissed.
func (c *Checkout) Notice() *Notice {
	if c.notice != nil && c.now().After(c.notice.Until) {
		c.notice = nil
	}
	return c.notice
}

// Validate checks the form and the cart, collecting all violations.
// Returns true when submission may proceed.
func (c *Checkout) Validate(form CheckoutForm) bool {
	c.state = StateValidating
	errs := map[string]string{}

	if strings.TrimSpace(form.Name) == "" {
		errs["name"] = "Veuillez renseigner un nom."
	}
	if strings.TrimSpace(form.Location) == "" {
		errs["location"] = "Veuillez renseigner un lieu de livraison."
	}
	contact := strings.TrimSpace(form.Contact)
	if contact == "" {
		errs["contact"] = "Veuillez renseigner un contact."
	} else if !contactRE.MatchString(contact) {
		errs["contact"] = "Le numéro doit contenir exactement 10 chiffres."
	}
	if c.cart.Empty() {
		errs["cart"] = "Votre panier est vide."
	}

	c.fieldErrors = errs
	if len(errs) > 0 {
		c.state = StateIdle
		return false
	}
	return true
}

// Submit validates and, when clean, sends the snapshot to the API. The
// cart is cleared only on success.
func (c *Checkout) Submit(ctx context.Context, form CheckoutForm) error {
	if !c.Validate(form) {
		return nil // blocked locally; violations are in FieldErrors
	}

	c.state = StateSubmitting
	err := c.api.SubmitOrder(ctx, OrderSubmission{
		Name:     strings.TrimSpace(form.Name),
		Location: strings.TrimSpace(form.Location),
		Contact:  strings.TrimSpace(form.Contact),
		Cart:     c.cart.Lines(),
		Date:     c.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		c.state = StateFailed
		c.notice = &Notice{
			Message: "Erreur lors de l'envoi de la commande. Veuillez réessayer.",
			Error:   true,
			Until:   c.now().Add(NoticeDuration),
		}
		return err
	}

	c.state = StateSucceeded
	c.notice = &Notice{
		Message: "Commande envoyée avec succès !",
		Until:   c.now().Add(NoticeDuration),
	}
	c.state = StateIdle
	if err := c.cart.ClearAll(); err != nil {
		return err
	}
	return nil
}

// Acknowledge returns the flow to Idle after a failure.
func (c *Checkout) Acknowledge() {
	c.notice = nil
	c.state = StateIdle
}
