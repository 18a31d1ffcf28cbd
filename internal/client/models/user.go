package models

type Company struct {
	Name string `json:"name"`
}

type User struct {
	ID      ID      `json:"id,omitempty"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone,omitempty"`
	Address string  `json:"address,omitempty"`
	Company Company `json:"company"`
}

func (u User) RecordID() ID { return u.ID }

// UserColumns is the display order used by table views.
var UserColumns = []string{"id", "name", "email", "company"}

func (u User) Field(name string) (any, bool) {
	switch name {
	case "id":
		return u.ID.String(), true
	case "name":
		return u.Name, true
	case "email":
		return u.Email, true
	case "phone":
		return u.Phone, true
	case "address":
		return u.Address, true
	case "company":
		return u.Company.Name, true
	}
	return nil, false
}
