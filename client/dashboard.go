package client

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kdiomande/maillots/app/models"
)

// StatusFilter narrows the dashboard list by delivery state.
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterDelivered
	FilterNotDelivered
)

// ConfirmWindow is how long a first delete click stays armed before the
// confirmation re-arms.
const ConfirmWindow = 2500 * time.Millisecond

// Dashboard drives the admin order view: load, search/filter, optimistic
// mutations and two-step delete confirmation.
type Dashboard struct {
	api *API
	now func() time.Time

	orders []models.Order
	notice *Notice

	Search string
	Filter StatusFilter

	confirmID string
	confirmAt time.Time
}

func NewDashboard(api *API) *Dashboard {
	return &Dashboard{api: api, now: time.Now}
}

// Load fetches all orders. A rejected session surfaces a reconnect notice
// instead of failing silently.
func (d *Dashboard) Load(ctx context.Context) error {
	orders, err := d.api.Orders(ctx)
	if errors.Is(err, ErrSessionExpired) {
		d.notice = &Notice{
			Message: "Session expirée ou accès refusé. Veuillez vous reconnecter.",
			Error:   true,
			Until:   d.now().Add(NoticeDuration),
		}
		return err
	}
	if err != nil {
		d.notice = &Notice{
			Message: "Erreur lors de la récupération des commandes.",
			Error:   true,
			Until:   d.now().Add(NoticeDuration),
		}
		return err
	}

	d.orders = orders
	return nil
}

// Orders returns the unfiltered loaded orders.
func (d *Dashboard) Orders() []models.Order { return d.orders }

// Notice returns the current notification, or nil when dismissed.
func (d *Dashboard) Notice() *Notice {
	if d.notice != nil && d.now().After(d.notice.Until) {
		d.notice = nil
	}
	return d.notice
}

// Visible applies the status filter AND the free-text search: a
// case-insensitive substring match over buyer name, contact, location and
// jersey names.
func (d *Dashboard) Visible() []models.Order {
	q := strings.ToLower(strings.TrimSpace(d.Search))

	out := []models.Order{}
	for _, o := range d.orders {
		if d.Filter == FilterDelivered && !o.Livree {
			continue
		}
		if d.Filter == FilterNotDelivered && o.Livree {
			continue
		}
		if q != "" && !matches(o, q) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matches(o models.Order, q string) bool {
	if strings.Contains(strings.ToLower(o.Name), q) ||
		strings.Contains(strings.ToLower(o.Contact), q) ||
		strings.Contains(strings.ToLower(o.Location), q) {
		return true
	}
	for _, line := range o.Cart {
		if strings.Contains(strings.ToLower(line.Jersey.Name), q) {
			return true
		}
	}
	return false
}

// ToggleDelivered flips the livree flag server-side and mirrors the change
// in the local view on success.
func (d *Dashboard) ToggleDelivered(ctx context.Context, id string) error {
	idx := d.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	target := !d.orders[idx].Livree
	if err := d.api.SetDelivered(ctx, id, target); err != nil {
		d.mutationNotice(err)
		return err
	}

	d.orders[idx].Livree = target
	msg := "Commande marquée comme livrée."
	if !target {
		msg = "Commande repassée à non livrée."
	}
	d.notice = &Notice{Message: msg, Until: d.now().Add(NoticeDuration)}
	return nil
}

// Delete implements the two-step confirmation: the first call on an id
// arms it and returns false; a second call on the same id within
// ConfirmWindow issues the destructive request. Targeting another id, or
// letting the window lapse, re-arms.
func (d *Dashboard) Delete(ctx context.Context, id string) (bool, error) {
	now := d.now()
	if d.confirmID != id || now.After(d.confirmAt.Add(ConfirmWindow)) {
		d.confirmID = id
		d.confirmAt = now
		d.notice = &Notice{
			Message: "Cliquez encore pour confirmer la suppression.",
			Error:   true,
			Until:   now.Add(NoticeDuration),
		}
		return false, nil
	}

	d.confirmID = ""
	if err := d.api.DeleteOrder(ctx, id); err != nil {
		d.mutationNotice(err)
		return false, err
	}

	if idx := d.indexOf(id); idx >= 0 {
		d.orders = append(d.orders[:idx], d.orders[idx+1:]...)
	}
	d.notice = &Notice{Message: "Commande supprimée.", Until: d.now().Add(NoticeDuration)}
	return true, nil
}

func (d *Dashboard) indexOf(id string) int {
	for i, o := range d.orders {
		if o.ID.Hex() == id {
			return i
		}
	}
	return -1
}

func (d *Dashboard) mutationNotice(err error) {
	msg := "Erreur lors de la mise à jour."
	switch {
	case errors.Is(err, ErrSessionExpired):
		msg = "Session expirée. Veuillez vous reconnecter."
	case errors.Is(err, ErrNotFound):
		msg = "Commande non trouvée."
	}
	d.notice = &Notice{Message: msg, Error: true, Until: d.now().Add(NoticeDuration)}
}
