// Package seeder fills a migrated database with the skills catalog and a few
// demo users. Every seeder is safe to run on each startup.
package seeder

import (
	"context"

	"peer-match/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
