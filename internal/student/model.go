package student

import (
	"fmt"
	"time"
)

// Student is the mapped entity. Note lives in memory only and is never
// persisted.
type Student struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Group       Group     `json:"group,omitempty"`
	Note        string    `json:"note,omitempty"`
}

func (s *Student) String() string {
	return fmt.Sprintf("Student{id=%d, name=%s, dob=%s, group=%s}",
		s.ID, s.Name, s.DateOfBirth.Format(DateLayout), s.Group)
}
