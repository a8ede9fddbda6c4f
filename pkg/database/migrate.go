package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Follow{},
		&model.Content{},
		&model.Activity{},
		&model.ActivityLike{},
		&model.Rating{},
		&model.Review{},
		&model.UserContent{},
		&model.CustomList{},
		&model.CustomListItem{},
		&model.Outbox{},
	}
}

type foreignKey struct {
	table, name, ddl string
}

// Foreign keys are added separately so that AutoMigrate stays additive and
// user deletion is restricted rather than cascaded.
var postgresForeignKeys = []foreignKey{
	{"follows", "fk_follows_follower", "FOREIGN KEY (follower_id) REFERENCES users(id) ON DELETE RESTRICT"},
	{"follows", "fk_follows_followed", "FOREIGN KEY (followed_id) REFERENCES users(id) ON DELETE RESTRICT"},
	{"follows", "chk_follows_no_self", "CHECK (follower_id <> followed_id)"},
	{"activities", "fk_activities_user", "FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT"},
	{"activity_likes", "fk_activity_likes_activity", "FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE"},
	{"activity_likes", "fk_activity_likes_user", "FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT"},
	{"custom_list_items", "fk_custom_list_items_list", "FOREIGN KEY (custom_list_id) REFERENCES custom_lists(id) ON DELETE CASCADE"},
}

// AutoMigrate 执行增量迁移
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, fk := range postgresForeignKeys {
		var n int64
		if err := db.Raw(
			"SELECT COUNT(*) FROM information_schema.table_constraints WHERE table_name = ? AND constraint_name = ?",
			fk.table, fk.name,
		).Scan(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s", fk.table, fk.name, fk.ddl)).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", fk.name, err)
		}
	}
	return nil
}
