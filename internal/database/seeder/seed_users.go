package seeder

import (
	"context"
	"fmt"

	"peer-match/internal/database"

	"golang.org/x/crypto/bcrypt"
)

const demoPassword = "password"

// DemoUsersSeeder creates three users whose skill sets overlap the way the
// browse view is usually demonstrated: john {1,2,3}, jane {2,3,4}, alex {1,3,5}.
type DemoUsersSeeder struct{}

func (DemoUsersSeeder) Name() string { return "demo_users" }

var demoUsers = []struct {
	DisplayName string
	Email       string
	Skills      []int
}{
	{DisplayName: "john_dev", Email: "john@example.com", Skills: []int{1, 2, 3}},
	{DisplayName: "jane_coder", Email: "jane@example.com", Skills: []int{2, 3, 4}},
	{DisplayName: "alex_hacker", Email: "alex@example.com", Skills: []int{1, 3, 5}},
}

func (DemoUsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "display_name", "password_hash"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "user_skills", "user_id", "skill_id"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	return database.WithTx(ctx, db, func(q database.Querier) error {
		return insertDemoUsers(ctx, q, string(hash))
	})
}

func insertDemoUsers(ctx context.Context, q database.Querier, hash string) error {
	for _, u := range demoUsers {
		if _, err := q.Exec(ctx,
			`INSERT INTO users (id, email, display_name, password_hash)
			 VALUES (gen_random_uuid(), $1, $2, $3)
			 ON CONFLICT (email) DO NOTHING`,
			u.Email, u.DisplayName, hash,
		); err != nil {
			return err
		}

		for _, pos := range u.Skills {
			if pos < 1 || pos > len(catalog) {
				return fmt.Errorf("demo user %s: skill position %d out of range", u.Email, pos)
			}
			if _, err := q.Exec(ctx,
				`INSERT INTO user_skills (user_id, skill_id)
				 SELECT u.id, s.id FROM users u, skills s
				 WHERE u.email = $1 AND s.name = $2
				 ON CONFLICT (user_id, skill_id) DO NOTHING`,
				u.Email, catalog[pos-1].Name,
			); err != nil {
				return err
			}
		}
	}
	return nil
}
