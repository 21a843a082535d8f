package service

import (
	"context"

	"github.com/google/uuid"

	"bess_quote_backend/internal/auth/password"
	"bess_quote_backend/internal/auth/repository"
)

// seedPassword is the initial password for demo accounts. Operators rotate
// it on first login.
const seedPassword = "ffdpower123"

type seedUser struct {
	email      string
	fullName   string
	role       string
	department string
	phone      string
	avatar     string
	active     bool
}

var demoUsers = []seedUser{
	{"marco.rossi@ffdpower.it", "Marco Rossi", "commerciale", "Vendite Nord Italia", "+39 02 1234567", "MR", true},
	{"giulia.bianchi@ffdpower.it", "Giulia Bianchi", "commerciale", "Vendite Centro-Sud Italia", "+39 06 7654321", "GB", true},
	{"andrea.ferrari@ffdpower.it", "Andrea Ferrari", "manager", "Sales Management", "+39 011 9876543", "AF", true},
	{"admin@ffdpower.it", "Amministratore Sistema", "admin", "IT", "+39 02 0000000", "AD", true},
	{"luca.verdi@ffdpower.it", "Luca Verdi", "commerciale", "Vendite Utility Scale", "+39 02 5555555", "LV", true},
	{"sara.neri@ffdpower.it", "Sara Neri", "commerciale", "Vendite Residenziale", "+39 02 4444444", "SN", false},
}

// Seed inserts the demo accounts when the user table is empty and seeding
// is enabled. It is safe to call on every startup.
func (s *Service) Seed(ctx context.Context) error {
	if !s.cfg.GetSeedDemoUsers() {
		return nil
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := password.Hash(seedPassword)
	if err != nil {
		return err
	}

	for _, d := range demoUsers {
		user := &repository.User{
			ID:           uuid.New(),
			Username:     d.email,
			Email:        d.email,
			PasswordHash: hash,
			FullName:     d.fullName,
			Role:         d.role,
			Department:   d.department,
			Phone:        d.phone,
			Avatar:       d.avatar,
			IsActive:     d.active,
			CreatedAt:    s.now(),
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return err
		}
	}

	s.log.Info("demo users seeded", "count", len(demoUsers))
	return nil
}
