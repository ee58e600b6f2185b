package database

import (
	"context"
	"time"

	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/observability"

	"gorm.io/gorm"
)

// Models lists the tables managed by Migrate, parents first.
var Models = []any{
	&domain.User{},
	&domain.LocalCredential{},
	&domain.Product{},
	&domain.ProductImage{},
}

func Migrate(db *gorm.DB) error {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(context.Background(), "migrate", time.Since(start))
	}()
	if err := db.AutoMigrate(Models...); err != nil {
		observability.RecordDatabaseStartupEvent(context.Background(), "migrate", "error")
		return err
	}
	observability.RecordDatabaseStartupEvent(context.Background(), "migrate", "success")
	return nil
}

// PendingTables reports the managed tables that do not exist yet.
func PendingTables(db *gorm.DB) []string {
	var pending []string
	for _, m := range Models {
		if !db.Migrator().HasTable(m) {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(m); err != nil {
				continue
			}
			pending = append(pending, stmt.Schema.Table)
		}
	}
	return pending
}
