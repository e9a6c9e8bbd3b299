package model

import "time"

// SalaryStatus is the payment processing state of a salary record.
type SalaryStatus string

const (
	SalaryPending    SalaryStatus = "PENDING"
	SalaryProcessing SalaryStatus = "PROCESSING"
	SalaryPaid       SalaryStatus = "PAID"
)

// ParseSalaryStatus validates a salary status string.
func ParseSalaryStatus(s string) (SalaryStatus, bool) {
	switch SalaryStatus(s) {
	case SalaryPending, SalaryProcessing, SalaryPaid:
		return SalaryStatus(s), true
	}
	return "", false
}

// Salary is one employee's pay record for a given month.
// NetSalary is always derived server-side; client-supplied values are
// ignored.
type Salary struct {
	ID           int64        `json:"id"`
	EmployeeID   int64        `json:"employeeId"`
	EmployeeName string       `json:"employeeName"`
	BaseSalary   float64      `json:"baseSalary"`
	Bonus        float64      `json:"bonus"`
	Deductions   float64      `json:"deductions"`
	NetSalary    float64      `json:"netSalary"`
	Month        string       `json:"month"` // "YYYY-MM"
	Year         int          `json:"year"`
	Status       SalaryStatus `json:"status"`
	Comments     string       `json:"comments,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// ComputeNet derives the net pay from its components.
func ComputeNet(base, bonus, deductions float64) float64 {
	return base + bonus - deductions
}

// SalaryRequest is the payload for creating or updating a salary record.
type SalaryRequest struct {
	EmployeeID int64   `json:"employeeId" binding:"required,min=1"`
	BaseSalary float64 `json:"baseSalary" binding:"required,min=0"`
	Bonus      float64 `json:"bonus" binding:"omitempty,min=0"`
	Deductions float64 `json:"deductions" binding:"omitempty,min=0"`
	Month      string  `json:"month" binding:"required,datetime=2006-01"`
	Year       int     `json:"year" binding:"required,min=2000,max=2100"`
	Status     string  `json:"status" binding:"required,oneof=PENDING PROCESSING PAID"`
	Comments   string  `json:"comments" binding:"omitempty,max=500"`
}
