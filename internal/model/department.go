package model

import "time"

// Department groups employees. EmployeeCount is computed by the backend
// on read; clients never send it.
type Department struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	EmployeeCount int       `json:"employeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DepartmentRequest is the payload for creating or updating a department.
type DepartmentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"omitempty,max=500"`
}
