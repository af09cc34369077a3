package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample departments, roles and users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		if clearData {
			if _, err := db.ExecContext(ctx, "TRUNCATE user_profiles, user_roles, users, roles, employees, departments RESTART IDENTITY CASCADE"); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		if err := seed(ctx, db, string(hash)); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		fmt.Println("Seed data applied")
	},
}

type seedDepartment struct {
	Name     string
	Desc     string
	Location string
}

type seedRole struct {
	Name string
	Desc string
	Area string
}

type seedUser struct {
	FirstName string
	LastName  string
	Email     string
	Dept      string
	Roles     []string
}

var (
	seedDepartments = []seedDepartment{
		{"Engineering", "builds and runs the platform", "Indonesia"},
		{"People", "recruiting and intern programme", "Indonesia"},
	}
	seedRoles = []seedRole{
		{"admin", "full administrator", "Information Tech"},
		{"hr", "manages employee records", "Human Resource"},
		{"mentor", "supervises interns", "Others"},
	}
	seedUsers = []seedUser{
		{"Padil", "Admin", "padil@mail.com", "Engineering", []string{"admin"}},
		{"Fadhil", "Rahman", "fadhil@mail.com", "People", []string{"hr", "mentor"}},
	}
)

func seed(ctx context.Context, db *sqlx.DB, passwordHash string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	departmentIDs := make(map[string]int64, len(seedDepartments))
	for _, d := range seedDepartments {
		var id int64
		err := tx.GetContext(ctx, &id, "SELECT id FROM departments WHERE name = $1 ORDER BY id LIMIT 1", d.Name)
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.GetContext(ctx, &id,
				"INSERT INTO departments (name, description, location) VALUES ($1, $2, $3) RETURNING id",
				d.Name, d.Desc, d.Location)
			if err == nil {
				fmt.Println("Seeded department:", d.Name)
			}
		}
		if err != nil {
			return fmt.Errorf("department %s: %w", d.Name, err)
		}
		departmentIDs[d.Name] = id
	}

	roleIDs := make(map[string]int64, len(seedRoles))
	for _, r := range seedRoles {
		var id int64
		err := tx.GetContext(ctx, &id,
			`INSERT INTO roles (name, description, functional_area) VALUES ($1, $2, $3)
			 ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
			 RETURNING id`,
			r.Name, r.Desc, r.Area)
		if err != nil {
			return fmt.Errorf("role %s: %w", r.Name, err)
		}
		roleIDs[r.Name] = id
	}

	for _, u := range seedUsers {
		var id int64
		err := tx.GetContext(ctx, &id,
			`INSERT INTO users (first_name, last_name, primary_email_address, password_hash, department_id, is_active)
			 VALUES ($1, $2, $3, $4, $5, TRUE)
			 ON CONFLICT (primary_email_address) DO UPDATE SET department_id = EXCLUDED.department_id
			 RETURNING id`,
			u.FirstName, u.LastName, u.Email, passwordHash, departmentIDs[u.Dept])
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}

		for _, name := range u.Roles {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
				id, roleIDs[name]); err != nil {
				return fmt.Errorf("grant %s to %s: %w", name, u.Email, err)
			}
		}
		fmt.Println("Seeded user:", u.Email)
	}

	return tx.Commit()
}
