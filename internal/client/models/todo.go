package models

type Todo struct {
	ID        ID     `json:"id,omitempty"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    ID     `json:"userId,omitempty"`
}

func (t Todo) RecordID() ID { return t.ID }

var TodoColumns = []string{"id", "title", "completed", "user"}

func (t Todo) Field(name string) (any, bool) {
	switch name {
	case "id":
		return t.ID.String(), true
	case "title":
		return t.Title, true
	case "completed":
		return t.Completed, true
	case "user", "userId":
		return t.UserID.String(), true
	}
	return nil, false
}
