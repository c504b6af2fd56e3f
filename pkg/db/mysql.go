package db

import (
	"database/sql"
	"sync"
	"time"

	"github.com/boushrabettir/ginder-backend/cfg"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type Mysql struct {
	Config    *cfg.Config
	once      sync.Once
	db        *gorm.DB
	initErr   error
	dialector gorm.Dialector
}

func NewMysql(config *cfg.Config) (*Mysql, error) {
	return &Mysql{
		Config: config,
	}, nil
}

// NewMysqlWithDialector opens through the given dialector instead of the configured DSN,
// e.g. mysql.New(mysql.Config{Conn: existingPool}).
func NewMysqlWithDialector(config *cfg.Config, dialector gorm.Dialector) (*Mysql, error) {
	return &Mysql{
		Config:    config,
		dialector: dialector,
	}, nil
}

func (m *Mysql) DSN() string {
	config := mysqlDriver.Config{
		User:                 m.Config.Mysql.Username,
		Passwd:               m.Config.Mysql.Password,
		DBName:               m.Config.Mysql.Database,
		Addr:                 m.Config.Mysql.Host + ":" + m.Config.Mysql.Port,
		Net:                  "tcp",
		ParseTime:            true,
		AllowNativePasswords: true,
		Params:               map[string]string{"charset": "utf8mb4"},
	}
	return config.FormatDSN()
}

func (m *Mysql) Db() (*gorm.DB, error) {
	m.once.Do(func() {
		dialector := m.dialector
		if dialector == nil {
			dialector = mysql.Open(m.DSN())
		}

		// Writes are single statements; duplicate keys surface as gorm.ErrDuplicatedKey
		var db *gorm.DB
		db, m.initErr = gorm.Open(dialector, &gorm.Config{
			SkipDefaultTransaction: true,
			TranslateError:         true,
		})
		if m.initErr != nil {
			return
		}

		var sqlDB *sql.DB
		sqlDB, m.initErr = db.DB()
		if m.initErr != nil {
			return
		}

		// Setting connection pool
		if m.Config.Mysql.MaxIdleConnection > 0 {
			sqlDB.SetMaxIdleConns(m.Config.Mysql.MaxIdleConnection)
		}
		if m.Config.Mysql.MaxOpenConnection > 0 {
			sqlDB.SetMaxOpenConns(m.Config.Mysql.MaxOpenConnection)
		}
		if m.Config.Mysql.MaxLifeTimeConnection > 0 {
			sqlDB.SetConnMaxLifetime(time.Duration(m.Config.Mysql.MaxLifeTimeConnection) * time.Second)
		}

		m.db = db
	})
	return m.db, m.initErr
}

func (m *Mysql) Ping() error {
	db, err := m.Db()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (m *Mysql) Close() error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func (m *Mysql) Migrate(models ...interface{}) error {
	db, err := m.Db()
	if err != nil {
		return err
	}
	return db.AutoMigrate(models...)
}
