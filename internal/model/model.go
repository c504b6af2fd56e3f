package model

import (
	"time"

	"github.com/boushrabettir/ginder-backend/cfg"
	"github.com/boushrabettir/ginder-backend/pkg/db"
	"github.com/boushrabettir/ginder-backend/pkg/log"
)

// Model carries the dependencies of a table handle plus the bookkeeping columns.
type Model struct {
	Config    *cfg.Config `gorm:"-" json:"-"`
	Logger    log.Logger  `gorm:"-" json:"-"`
	Mysql     *db.Mysql   `gorm:"-" json:"-"`
	CreatedAt time.Time   `json:"-" gorm:"column:created_at"`
	UpdatedAt time.Time   `json:"-" gorm:"column:updated_at"`
}
