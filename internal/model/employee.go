package model

import "time"

// EmployeeStatus marks whether an employee is currently on staff.
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "ACTIVE"
	EmployeeInactive EmployeeStatus = "INACTIVE"
)

// Employee is a staff directory record.
// DepartmentName is denormalized from the department reference and
// refreshed on every write.
type Employee struct {
	ID             int64          `json:"id"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	DepartmentID   *int64         `json:"departmentId"`
	DepartmentName string         `json:"departmentName"`
	Position       string         `json:"position"`
	HireDate       Date           `json:"hireDate"`
	Salary         float64        `json:"salary"`
	Address        string         `json:"address"`
	Status         EmployeeStatus `json:"status"`
	UserID         *int64         `json:"userId,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// FullName returns the display name shown on leave and salary records.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeRequest is the payload for creating or updating an employee.
type EmployeeRequest struct {
	FirstName    string  `json:"firstName" binding:"required,min=1,max=100"`
	LastName     string  `json:"lastName" binding:"required,min=1,max=100"`
	Email        string  `json:"email" binding:"required,email,max=255"`
	Phone        string  `json:"phone" binding:"omitempty,max=30"`
	DepartmentID *int64  `json:"departmentId" binding:"omitempty,min=1"`
	Position     string  `json:"position" binding:"required,min=1,max=120"`
	HireDate     string  `json:"hireDate" binding:"required,datetime=2006-01-02"`
	Salary       float64 `json:"salary" binding:"omitempty,min=0"`
	Address      string  `json:"address" binding:"omitempty,max=255"`
	Status       string  `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}
