package accounts

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"livwell/models"
)

// DemoUsers are the accounts a fresh in-memory store starts with
var DemoUsers = []models.NewUser{
	{Name: "John Doe", Email: "john@example.com", Password: "password123", Address: "123 Main St, Anytown, 12345", Phone: "555-123-4567"},
	{Name: "Jane Smith", Email: "jane@example.com", Password: "password123", Address: "456 Oak Ave, Somewhere, 67890", Phone: "555-987-6543"},
}

// Seed creates users whose email is not taken yet, hashing their passwords
func Seed(ctx context.Context, s *Store, users []models.NewUser) error {
	for _, in := range users {
		existing, err := s.FindByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		in.Password = string(hashed)
		if _, err := s.Create(ctx, in); err != nil {
			return err
		}
	}
	return nil
}
