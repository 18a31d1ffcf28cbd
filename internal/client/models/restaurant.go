package models

type Restaurant struct {
	ID      ID      `json:"id,omitempty"`
	Name    string  `json:"name"`
	Cuisine string  `json:"cuisine"`
	Rating  float64 `json:"rating"`
	Address string  `json:"address"`
}

func (r Restaurant) RecordID() ID { return r.ID }

var RestaurantColumns = []string{"id", "name", "cuisine", "rating", "address"}

func (r Restaurant) Field(name string) (any, bool) {
	switch name {
	case "id":
		return r.ID.String(), true
	case "name":
		return r.Name, true
	case "cuisine":
		return r.Cuisine, true
	case "rating":
		return r.Rating, true
	case "address":
		return r.Address, true
	}
	return nil, false
}
