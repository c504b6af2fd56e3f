package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/boushrabettir/ginder-backend/cfg"
	"github.com/boushrabettir/ginder-backend/pkg/db"
	"github.com/boushrabettir/ginder-backend/pkg/log"
	"gorm.io/gorm"
)

var ErrUserExists = errors.New("user already registered")

type User struct {
	Model
	ID string `json:"id" gorm:"column:id;primaryKey;type:varchar(191)"`
}

func NewUser(config *cfg.Config, logger log.Logger, db *db.Mysql) (*User, error) {
	user := &User{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}
	return user, nil
}

func (u *User) TableName() string {
	return "users"
}

// Create registers a user id, rejecting ids that already exist.
func (u *User) Create(ctx context.Context, id string) error {
	db, err := u.Mysql.Db()
	if err != nil {
		u.Logger.Error(ctx, "Failed to get database connection: %v", err)
		return err
	}

	row := &User{ID: TruncateString(id, 191)}
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrUserExists, id)
		}
		return fmt.Errorf("failed to create user %s: %w", id, err)
	}

	u.Logger.Info(ctx, "Registered user %s", id)
	return nil
}
