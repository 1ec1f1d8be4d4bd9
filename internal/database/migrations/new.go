package migrations

import (
	"sort"

	"github.com/go-gormigrate/gormigrate/v2"
)

var registered []*gormigrate.Migration

// New returns the registered migrations ordered by id. Migration packages
// register themselves from init, database.go imports each of them.
func New() *Migrations {
	ordered := append([]*gormigrate.Migration(nil), registered...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ID < ordered[j].ID
	})
	return &Migrations{
		GormOptions: &gormigrate.Options{
			TableName:      "apiserver_migrations",
			IDColumnName:   "id",
			IDColumnSize:   40,
			UseTransaction: false,
		},
		Migrations: ordered,
	}
}
