package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/admindash/internal/client/forms"
	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/client/query"
	"github.com/dmitrijs2005/admindash/internal/client/store"
)

type row interface {
	models.Record
	models.Fielder
}

// collection is what the commands need from one table, independent of its
// record type.
type collection interface {
	Name() string
	Title() string
	State() store.State
	// Err is the error of the last failed load.
	Err() error
	Len() int
	Load(ctx context.Context) error
	Render(w io.Writer, v query.View) error
	Form() (forms.Schema, bool)
	Add(ctx context.Context, values map[string]string) (models.ID, error)
	Edit(ctx context.Context, id models.ID, values map[string]string) error
	Prefill(id models.ID) (map[string]string, bool)
	Remove(ctx context.Context, id models.ID) error
	Fields() []string
	Close()
}

// table adapts a typed store to collection.
type table[T row] struct {
	title   string
	st      *store.Store[T]
	columns []string
}

var _ collection = (*table[models.User])(nil)

func (t *table[T]) Name() string { return t.st.Name() }

func (t *table[T]) Title() string { return t.title }

func (t *table[T]) State() store.State { return t.st.State() }

func (t *table[T]) Err() error { return t.st.Err() }

func (t *table[T]) Len() int { return t.st.Len() }

func (t *table[T]) Fields() []string { return t.columns }

func (t *table[T]) Form() (forms.Schema, bool) { return forms.For(t.st.Name()) }

func (t *table[T]) Close() { t.st.Close() }

func (t *table[T]) Load(ctx context.Context) error { return t.st.Load(ctx) }

func (t *table[T]) Remove(ctx context.Context, id models.ID) error { return t.st.Remove(ctx, id) }

func (t *table[T]) Add(ctx context.Context, values map[string]string) (models.ID, error) {
	schema, ok := t.Form()
	if !ok {
		return "", fmt.Errorf("%s cannot be added from the terminal", t.st.Name())
	}
	draft, err := forms.Decode[T](schema, values)
	if err != nil {
		return "", err
	}
	created, err := t.st.Create(ctx, draft)
	if err != nil {
		return "", err
	}
	return created.RecordID(), nil
}

func (t *table[T]) Prefill(id models.ID) (map[string]string, bool) {
	schema, ok := t.Form()
	if !ok {
		return nil, false
	}
	rec, ok := t.st.Get(id)
	if !ok {
		return nil, false
	}
	return forms.Prefill(schema, rec), true
}

func (t *table[T]) Edit(ctx context.Context, id models.ID, values map[string]string) error {
	schema, ok := t.Form()
	if !ok {
		return fmt.Errorf("%s cannot be edited from the terminal", t.st.Name())
	}
	base, ok := t.st.Get(id)
	if !ok {
		return &store.OpError{Op: store.OpUpdate, Collection: t.st.Name(), ID: id, Err: store.ErrNoRecord}
	}
	rec, err := forms.DecodeInto(schema, base, values)
	if err != nil {
		return err
	}
	_, err = t.st.Update(ctx, rec)
	return err
}

// Render writes the filtered and sorted mirror as an aligned table. Rows
// with a delete or update in flight are flagged.
func (t *table[T]) Render(w io.Writer, v query.View) error {
	items, err := query.Apply(v, t.st.Records(), t.columns)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := make([]string, 0, len(t.columns)+1)
	for _, c := range t.columns {
		header = append(header, strings.ToUpper(c))
	}
	header = append(header, "")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, it := range items {
		cells := make([]string, 0, len(t.columns)+1)
		for _, c := range t.columns {
			val, _ := it.Field(c)
			cells = append(cells, query.Format(val))
		}
		mark := ""
		if t.st.IsPending(it.RecordID()) {
			mark = "(pending)"
		}
		cells = append(cells, mark)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintf(w, "No %s found\n", t.st.Name())
	}
	return nil
}
