package repository

import (
	"context"
	"errors"

	"peer-match/internal/database"
	"peer-match/internal/domain/matching"
	"peer-match/internal/domain/skill"

	"github.com/google/uuid"
)

var ErrUserSkillNotFound = errors.New("user skill not found")

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error)
	// Add is idempotent; created is false when the pair already existed.
	Add(ctx context.Context, userID, skillID uuid.UUID) (created bool, err error)
	Remove(ctx context.Context, userID, skillID uuid.UUID) error
	// ListSkillProfiles returns every user with their skills, users ordered by id.
	ListSkillProfiles(ctx context.Context) ([]matching.Profile, error)
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT us.user_id, us.skill_id, s.name, us.created_at
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1
		 ORDER BY s.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.UserSkill, 0)
	for rows.Next() {
		var us skill.UserSkill
		if err := rows.Scan(&us.UserID, &us.SkillID, &us.SkillName, &us.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) Add(ctx context.Context, userID, skillID uuid.UUID) (bool, error) {
	n, err := r.db.Exec(ctx,
		`INSERT INTO user_skills (user_id, skill_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, skill_id) DO NOTHING`,
		userID, skillID,
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresUserSkillRepository) Remove(ctx context.Context, userID, skillID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`DELETE FROM user_skills WHERE user_id = $1 AND skill_id = $2`,
		userID, skillID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserSkillNotFound
	}
	return nil
}

func (r *PostgresUserSkillRepository) ListSkillProfiles(ctx context.Context) ([]matching.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.display_name, u.email, s.id, s.name
		 FROM users u
		 LEFT JOIN user_skills us ON us.user_id = u.id
		 LEFT JOIN skills s ON s.id = us.skill_id
		 ORDER BY u.id ASC, s.name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.Profile, 0)
	for rows.Next() {
		var (
			userID    uuid.UUID
			name      string
			email     string
			skillID   *uuid.UUID
			skillName *string
		)
		if err := rows.Scan(&userID, &name, &email, &skillID, &skillName); err != nil {
			return nil, err
		}

		if len(out) == 0 || out[len(out)-1].UserID != userID {
			out = append(out, matching.Profile{UserID: userID, Name: name, Email: email})
		}
		if skillID != nil && skillName != nil {
			last := &out[len(out)-1]
			last.Skills = append(last.Skills, matching.Skill{ID: *skillID, Name: *skillName})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
