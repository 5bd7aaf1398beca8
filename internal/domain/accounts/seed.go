package accounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/devstack-vibes/clinic-api/internal/platform/store"
)

// Seed prepares the record store for first use. Every collection that does
// not exist yet is materialised as an empty document, and an administrator
// directory entry is created when the user roster is empty. Seeding an
// already populated store changes nothing.
func Seed(ctx context.Context, st store.Store, adminUsername string, logger zerolog.Logger) error {
	for _, collection := range store.AllCollections {
		if collection == store.Users {
			continue
		}
		var records []map[string]interface{}
		if err := st.Load(collection, &records); err != nil {
			return fmt.Errorf("loading %s: %w", collection, err)
		}
		if records == nil {
			records = []map[string]interface{}{}
		}
		if err := st.Save(collection, records); err != nil {
			return fmt.Errorf("materialising %s: %w", collection, err)
		}
	}

	repo := NewStoreRepo(st)
	users, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	if len(users) > 0 {
		if err := st.Save(store.Users, users); err != nil {
			return fmt.Errorf("materialising users: %w", err)
		}
		return nil
	}

	admin := &User{ID: uuid.NewString(), Username: adminUsername, Role: AdminRole}
	if err := repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}
	logger.Info().Str("username", adminUsername).Msg("seeded administrator account")
	return nil
}
