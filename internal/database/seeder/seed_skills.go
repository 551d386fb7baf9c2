package seeder

import (
	"context"
	"fmt"

	"peer-match/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

// catalog order matters: DemoUsersSeeder refers to skills by position.
var catalog = []struct {
	Name     string
	Category string
}{
	{Name: "JavaScript", Category: "Programming Language"},
	{Name: "Python", Category: "Programming Language"},
	{Name: "React", Category: "Frontend"},
	{Name: "Node.js", Category: "Backend"},
	{Name: "SQL", Category: "Database"},
	{Name: "UI/UX Design", Category: "Design"},
	{Name: "Go", Category: "Programming Language"},
	{Name: "Docker", Category: "DevOps"},
}

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "created_at"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(q database.Querier) error {
		for _, it := range catalog {
			if _, err := q.Exec(
				ctx,
				`INSERT INTO skills (id, name, category) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (name) DO NOTHING`,
				it.Name,
				it.Category,
			); err != nil {
				return fmt.Errorf("seed skill %s: %w", it.Name, err)
			}
		}
		return nil
	})
}
