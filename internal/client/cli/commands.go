package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/forms"
	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/client/query"
	"github.com/dmitrijs2005/admindash/internal/client/session"
	"github.com/dmitrijs2005/admindash/internal/client/store"
)

// ensureLoaded fetches c the first time it is used, and again after a failed
// load, so an errored collection is never shown or mutated as if current.
func (a *App) ensureLoaded(ctx context.Context, c collection) error {
	switch c.State() {
	case store.Uninitialized, store.Errored:
		return c.Load(ctx)
	}
	return nil
}

// Show prints a collection, loading it first if needed.
func (a *App) Show(ctx context.Context, name string) error {
	c, err := a.lookup(name)
	if err != nil {
		return err
	}
	if err := a.ensureLoaded(ctx, c); err != nil {
		return err
	}
	return a.render(c)
}

func (a *App) render(c collection) error {
	if c.State() == store.Errored {
		return c.Err()
	}
	v := a.views[c.Name()]
	header := fmt.Sprintf("%s (%d)", c.Title(), c.Len())
	if v.Filter != "" {
		header += fmt.Sprintf(" filter=%q", v.Filter)
	}
	if v.SortField != "" {
		order := "asc"
		if v.Desc {
			order = "desc"
		}
		header += fmt.Sprintf(" sort=%s %s", v.SortField, order)
	}
	fmt.Fprintln(a.out, header)
	return c.Render(a.out, *v)
}

// Reload refetches a collection. On failure the mirror is kept but the
// collection counts as errored until a later load succeeds.
func (a *App) Reload(ctx context.Context, name string) error {
	c, err := a.lookup(name)
	if err != nil {
		return err
	}
	if err := c.Load(ctx); err != nil {
		return err
	}
	a.toast.Success("Loaded %d %s", c.Len(), c.Name())
	return nil
}

// askForm collects every field of schema. With current set, its values are
// offered as defaults.
func (a *App) askForm(schema forms.Schema, current map[string]string) (map[string]string, error) {
	fmt.Fprintln(a.out, schema.Title)
	values := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		label := f.Label
		if f.Required {
			label += " *"
		}

		var (
			v   string
			err error
		)
		if current != nil {
			v, err = getTextWithDefault(a.reader, label, current[f.Name], a.out)
		} else {
			v, err = getSimpleText(a.reader, label, a.out)
		}
		if err != nil {
			return nil, err
		}
		values[f.Name] = v
	}
	return values, nil
}

// Add asks for a new record and creates it. The record shows up once the
// backend has stored it.
func (a *App) Add(ctx context.Context, name string) error {
	c, err := a.lookup(name)
	if err != nil {
		return err
	}
	schema, ok := c.Form()
	if !ok {
		return fmt.Errorf("%s cannot be added from the terminal", name)
	}
	if err := a.ensureLoaded(ctx, c); err != nil {
		return err
	}

	values, err := a.askForm(schema, nil)
	if err != nil {
		return err
	}
	id, err := c.Add(ctx, values)
	if err != nil {
		return err
	}
	a.toast.Success("Added %s %s", singular(name), id)
	return nil
}

// Edit asks for new values of a record, showing the current ones, and
// saves them. The change is visible at once and reverted if saving fails.
func (a *App) Edit(ctx context.Context, name, rawID string) error {
	c, err := a.lookup(name)
	if err != nil {
		return err
	}
	id, err := models.ParseID(rawID)
	if err != nil {
		return err
	}
	if err := a.ensureLoaded(ctx, c); err != nil {
		return err
	}

	schema, ok := c.Form()
	if !ok {
		return fmt.Errorf("%s cannot be edited from the terminal", name)
	}
	current, ok := c.Prefill(id)
	if !ok {
		return &store.OpError{Op: store.OpUpdate, Collection: name, ID: id, Err: store.ErrNoRecord}
	}

	values, err := a.askForm(schema, current)
	if err != nil {
		return err
	}
	if err := c.Edit(ctx, id, values); err != nil {
		return err
	}
	a.toast.Success("Saved %s %s", singular(name), id)
	return nil
}

// Delete removes a record. The row disappears immediately and the backend
// call runs in the background; the outcome is reported as a toast, and a
// failed delete puts the row back.
func (a *App) Delete(ctx context.Context, name, rawID string) error {
	c, err := a.lookup(name)
	if err != nil {
		return err
	}
	id, err := models.ParseID(rawID)
	if err != nil {
		return err
	}
	if err := a.ensureLoaded(ctx, c); err != nil {
		return err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := c.Remove(ctx, id); err != nil {
			a.notifyErr(err)
			return
		}
		a.toast.Success("Deleted %s %s", singular(name), id)
	}()
	return nil
}

// Sort orders a collection by field. An empty field restores backend order.
func (a *App) Sort(name, field string, desc bool) error {
	c, err := a.lookup(name)
	if err != nil {
		return err
	}
	if field != "" && !slices.Contains(c.Fields(), field) {
		return fmt.Errorf("%w %q, sortable fields: %s", query.ErrUnknownField, field, strings.Join(c.Fields(), ", "))
	}
	v := a.views[name]
	v.SortField, v.Desc = field, desc
	return a.render(c)
}

// Filter keeps the rows of a collection containing text. Empty text clears
// the filter.
func (a *App) Filter(name, text string) error {
	c, err := a.lookup(name)
	if err != nil {
		return err
	}
	a.views[name].Filter = strings.TrimSpace(text)
	return a.render(c)
}

// Overview prints dashboard totals and the best rated restaurants.
func (a *App) Overview(ctx context.Context) error {
	o, err := a.overview.Overview(ctx, false)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Users\t%d\n", o.TotalUsers)
	fmt.Fprintf(tw, "Restaurants\t%d\n", o.TotalRestaurants)
	fmt.Fprintf(tw, "Todos\t%d (%d completed)\n", o.TotalTodos, o.CompletedTodos)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(o.TopRestaurants) == 0 {
		return nil
	}
	fmt.Fprintln(a.out, "Top rated:")
	for i, r := range o.TopRestaurants {
		fmt.Fprintf(a.out, "  %d. %s (%s) %s\n", i+1, r.Name, r.Cuisine, query.Format(r.Rating))
	}
	return nil
}

// Theme shows, sets or toggles the colour theme.
func (a *App) Theme(ctx context.Context, arg string) error {
	switch arg = strings.ToLower(strings.TrimSpace(arg)); arg {
	case "":
		t, err := a.settings.Theme(ctx)
		if err != nil {
			return err
		}
		a.toast.Info("Theme: %s", t)
		return nil
	case "toggle":
		t, err := a.settings.ToggleTheme(ctx)
		if err != nil {
			return err
		}
		a.toast.SetTheme(t)
		a.toast.Success("Theme: %s", t)
		return nil
	}

	t, err := models.ParseTheme(arg)
	if err != nil {
		return fmt.Errorf("%w %q, use light, dark or toggle", err, arg)
	}
	if err := a.settings.SetTheme(ctx, t); err != nil {
		return err
	}
	a.toast.SetTheme(t)
	a.toast.Success("Theme: %s", t)
	return nil
}

// applyTheme loads the saved theme into the notifier.
func (a *App) applyTheme(ctx context.Context) {
	t, err := a.settings.Theme(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to read theme", "error", err)
		return
	}
	a.toast.SetTheme(t)
}

// notifyErr reports err to the user as an error toast, with a hint for the
// failures the user can act on.
func (a *App) notifyErr(err error) {
	a.logger.Debug(context.Background(), "command failed", "error", err)

	var verrs forms.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		a.toast.Error("Please fix the form: %s", verrs)
	case errors.Is(err, store.ErrPending):
		a.toast.Error("%v, wait for it to finish", err)
	case errors.Is(err, client.ErrUnauthorized):
		a.toast.Error("%v (try 'login')", err)
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		a.toast.Error("%v (backend unreachable)", err)
	case errors.Is(err, session.ErrNotAuthenticated):
		a.toast.Error("You are not signed in")
	default:
		a.toast.Error("%v", err)
	}
}

func singular(collection string) string {
	return strings.TrimSuffix(collection, "s")
}
