package repository

import (
	"context"

	"peer-match/internal/database"
	"peer-match/internal/domain/connection"

	"github.com/google/uuid"
)

type ConnectionRepository interface {
	// Create inserts owner→target. When the edge already exists it returns
	// the stored edge with created=false instead of an error.
	Create(ctx context.Context, ownerID, targetID uuid.UUID) (edge connection.Edge, created bool, err error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]connection.Listing, error)
}

type PostgresConnectionRepository struct {
	db database.DB
}

func NewPostgresConnectionRepository(db database.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

func (r *PostgresConnectionRepository) Create(ctx context.Context, ownerID, targetID uuid.UUID) (connection.Edge, bool, error) {
	edge := connection.Edge{OwnerID: ownerID, TargetID: targetID}

	// The primary key makes concurrent inserts of the same pair race-free:
	// exactly one statement gets a RETURNING row.
	row := r.db.QueryRow(ctx,
		`INSERT INTO connections (owner_id, target_id) VALUES ($1, $2)
		 ON CONFLICT (owner_id, target_id) DO NOTHING
		 RETURNING created_at`,
		ownerID, targetID,
	)
	err := row.Scan(&edge.CreatedAt)
	if err == nil {
		return edge, true, nil
	}
	if !isNoRows(err) {
		return connection.Edge{}, false, err
	}

	row = r.db.QueryRow(ctx,
		`SELECT created_at FROM connections WHERE owner_id = $1 AND target_id = $2`,
		ownerID, targetID,
	)
	if err := row.Scan(&edge.CreatedAt); err != nil {
		return connection.Edge{}, false, err
	}
	return edge, false, nil
}

func (r *PostgresConnectionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]connection.Listing, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.target_id, u.display_name, u.email, c.created_at,
		        ARRAY(
		            SELECT s.name
		            FROM user_skills mine
		            JOIN user_skills theirs ON theirs.skill_id = mine.skill_id AND theirs.user_id = c.target_id
		            JOIN skills s ON s.id = mine.skill_id
		            WHERE mine.user_id = c.owner_id
		            ORDER BY s.name ASC
		        ) AS shared_skill_names
		 FROM connections c
		 JOIN users u ON u.id = c.target_id
		 WHERE c.owner_id = $1
		 ORDER BY c.created_at DESC, c.target_id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]connection.Listing, 0)
	for rows.Next() {
		var l connection.Listing
		if err := rows.Scan(&l.TargetID, &l.DisplayName, &l.Email, &l.ConnectedAt, &l.SharedSkillNames); err != nil {
			return nil, err
		}
		if l.SharedSkillNames == nil {
			l.SharedSkillNames = []string{}
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
