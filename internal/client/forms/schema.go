// Package forms describes record input forms declaratively and turns the
// collected string values into typed records.
package forms

import (
	"github.com/dmitrijs2005/admindash/internal/client/models"
)

type FieldType string

const (
	TypeText   FieldType = "text"
	TypeNumber FieldType = "number"
	TypeEmail  FieldType = "email"
	TypeTel    FieldType = "tel"
)

// Field is one input of a form. Min, Max and Step apply to number fields
// only; a nil bound is unbounded and a zero Step accepts any value.
type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	Min      *float64
	Max      *float64
	Step     float64
}

type Schema struct {
	Title  string
	Fields []Field
}

func bound(v float64) *float64 { return &v }

var RestaurantForm = Schema{
	Title: "Add Restaurant",
	Fields: []Field{
		{Name: "name", Label: "Restaurant Name", Type: TypeText, Required: true},
		{Name: "cuisine", Label: "Cuisine Type", Type: TypeText, Required: true},
		{Name: "rating", Label: "Rating", Type: TypeNumber, Required: true, Min: bound(0), Max: bound(5), Step: 0.1},
		{Name: "address", Label: "Address", Type: TypeText, Required: true},
	},
}

var UserForm = Schema{
	Title: "Add User",
	Fields: []Field{
		{Name: "name", Label: "Full Name", Type: TypeText, Required: true},
		{Name: "email", Label: "Email", Type: TypeEmail, Required: true},
		{Name: "phone", Label: "Phone", Type: TypeTel},
		{Name: "address", Label: "Address", Type: TypeText},
	},
}

var TodoForm = Schema{
	Title: "Add Todo",
	Fields: []Field{
		{Name: "title", Label: "Title", Type: TypeText, Required: true},
		{Name: "userId", Label: "User ID", Type: TypeNumber, Min: bound(1), Step: 1},
	},
}

// For returns the form of a collection.
func For(collection string) (Schema, bool) {
	switch collection {
	case models.CollectionUsers:
		return UserForm, true
	case models.CollectionRestaurants:
		return RestaurantForm, true
	case models.CollectionTodos:
		return TodoForm, true
	}
	return Schema{}, false
}

// Field looks a field up by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
