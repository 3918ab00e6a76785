package employee

import "time"

type Profile struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	EmployeeNumber string    `json:"employeeNumber"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Position       string    `json:"position"`
	Department     string    `json:"department"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	Email          string    `json:"email"`
	DateJoined     time.Time `json:"dateJoined"`
}

func (p Profile) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
