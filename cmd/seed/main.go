package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aura-hq/staffmanager/internal/config"
	"github.com/aura-hq/staffmanager/internal/database"
	"github.com/aura-hq/staffmanager/internal/logger"
	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/aura-hq/staffmanager/internal/repository"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo workspace: four departments, two accounts
// (admin@company.com / employee@company.com, password "password123")
// and a small staff directory. Safe to run repeatedly.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)

	fmt.Println("=== Seeding demo data ===")

	// ─── Departments ───────────────────────────────────────────────────
	departments := []model.Department{
		{Name: "Engineering", Description: "Product development and platform teams"},
		{Name: "Human Resources", Description: "People operations and recruiting"},
		{Name: "Sales", Description: "Revenue and account management"},
		{Name: "Marketing", Description: "Brand, content and demand generation"},
	}

	deptIDs := make(map[string]int64, len(departments))
	for i := range departments {
		d := &departments[i]

		var existingID int64
		err := pool.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", d.Name).Scan(&existingID)
		switch {
		case err == nil:
			deptIDs[d.Name] = existingID
			fmt.Printf("Department %q already exists (ID %d)\n", d.Name, existingID)
		case err == pgx.ErrNoRows:
			if err := departmentRepo.Create(ctx, d); err != nil {
				log.Fatal().Err(err).Str("name", d.Name).Msg("Failed to create department")
			}
			deptIDs[d.Name] = d.ID
			fmt.Printf("Created department %q (ID %d)\n", d.Name, d.ID)
		default:
			log.Fatal().Err(err).Msg("Failed to check department")
		}
	}

	// ─── Accounts ──────────────────────────────────────────────────────
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash seed password")
	}

	accounts := []model.User{
		{Email: "admin@company.com", FirstName: "Avery", LastName: "Stone", Role: model.RoleAdmin},
		{Email: "employee@company.com", FirstName: "Jordan", LastName: "Reyes", Role: model.RoleEmployee},
	}

	userIDs := make(map[string]int64, len(accounts))
	for i := range accounts {
		u := &accounts[i]
		u.PasswordHash = string(hash)

		existing, err := userRepo.GetByEmail(ctx, u.Email)
		switch {
		case err == nil:
			userIDs[u.Email] = existing.ID
			fmt.Printf("Account %s already exists (ID %d)\n", u.Email, existing.ID)
		case err == pgx.ErrNoRows:
			if err := userRepo.Create(ctx, u); err != nil {
				log.Fatal().Err(err).Str("email", u.Email).Msg("Failed to create account")
			}
			userIDs[u.Email] = u.ID
			fmt.Printf("Created account %s (ID %d)\n", u.Email, u.ID)
		default:
			log.Fatal().Err(err).Msg("Failed to check account")
		}
	}

	// ─── Employees ─────────────────────────────────────────────────────
	engID := deptIDs["Engineering"]
	hrID := deptIDs["Human Resources"]
	salesID := deptIDs["Sales"]
	employeeUserID := userIDs["employee@company.com"]

	staff := []model.Employee{
		{
			FirstName: "Jordan", LastName: "Reyes", Email: "employee@company.com",
			Phone: "555-0101", DepartmentID: &engID, DepartmentName: "Engineering",
			Position: "Software Engineer", HireDate: model.NewDate(2022, time.March, 14),
			Salary: 85000, Address: "12 Harbor Lane", Status: model.EmployeeActive,
			UserID: &employeeUserID,
		},
		{
			FirstName: "Priya", LastName: "Nair", Email: "priya.nair@company.com",
			Phone: "555-0102", DepartmentID: &hrID, DepartmentName: "Human Resources",
			Position: "HR Generalist", HireDate: model.NewDate(2021, time.September, 1),
			Salary: 62000, Address: "4 Birch Street", Status: model.EmployeeActive,
		},
		{
			FirstName: "Marcus", LastName: "Webb", Email: "marcus.webb@company.com",
			Phone: "555-0103", DepartmentID: &salesID, DepartmentName: "Sales",
			Position: "Account Executive", HireDate: model.NewDate(2023, time.January, 9),
			Salary: 71000, Address: "88 Alder Road", Status: model.EmployeeActive,
		},
	}

	seeded := 0
	for i := range staff {
		e := &staff[i]

		var existingID int64
		err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE email = $1", e.Email).Scan(&existingID)
		switch {
		case err == nil:
			fmt.Printf("Employee %s already exists (ID %d)\n", e.Email, existingID)
		case err == pgx.ErrNoRows:
			if err := employeeRepo.Create(ctx, e); err != nil {
				log.Fatal().Err(err).Str("email", e.Email).Msg("Failed to create employee")
			}
			seeded++
		default:
			log.Fatal().Err(err).Msg("Failed to check employee")
		}
	}

	fmt.Printf("\nDone. %d employees seeded.\n", seeded)
	fmt.Println("Login: admin@company.com / employee@company.com (password123)")
}
