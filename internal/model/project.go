package model

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/boushrabettir/ginder-backend/cfg"
	"github.com/boushrabettir/ginder-backend/pkg/db"
	"github.com/boushrabettir/ginder-backend/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	FieldName         = "name"
	FieldAvatarURL    = "avatar_url"
	FieldDescription  = "description"
	FieldLink         = "link"
	FieldUsername     = "username"
	FieldLanguages    = "languages"
	FieldStars        = "stars"
	FieldForks        = "forks"
	FieldContributors = "contributors"
	FieldFollowers    = "followers"
)

// MutableFields are the columns synchronization may rewrite; id never changes.
var MutableFields = []string{
	FieldName,
	FieldAvatarURL,
	FieldDescription,
	FieldLink,
	FieldUsername,
	FieldLanguages,
	FieldStars,
	FieldForks,
	FieldContributors,
	FieldFollowers,
}

var (
	ErrImmutableField = errors.New("field cannot be updated")
	ErrUnknownField   = errors.New("unknown project field")
)

type Project struct {
	Model
	ID           int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	Name         string    `json:"name" gorm:"column:name;type:varchar(255);not null"`
	AvatarURL    string    `json:"avatar_url" gorm:"column:avatar_url;type:varchar(512)"`
	Description  *string   `json:"description" gorm:"column:description;type:text"`
	Link         string    `json:"link" gorm:"column:link;type:varchar(512)"`
	Username     string    `json:"username" gorm:"column:username;type:varchar(255);index"`
	Languages    Languages `json:"languages" gorm:"column:languages;type:json"`
	Stars        int       `json:"stars" gorm:"column:stars;default:0"`
	Forks        int       `json:"forks" gorm:"column:forks;default:0"`
	Contributors int       `json:"contributors" gorm:"column:contributors;default:0"`
	Followers    int       `json:"followers" gorm:"column:followers;default:0"`
}

func NewProject(config *cfg.Config, logger log.Logger, db *db.Mysql) (*Project, error) {
	project := &Project{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}
	return project, nil
}

func (p *Project) TableName() string {
	return "projects"
}

func (p *Project) conn(ctx context.Context) (*gorm.DB, error) {
	db, err := p.Mysql.Db()
	if err != nil {
		p.Logger.Error(ctx, "Failed to get database connection: %v", err)
		return nil, err
	}
	return db.WithContext(ctx), nil
}

func (p *Project) All(ctx context.Context) ([]Project, error) {
	db, err := p.conn(ctx)
	if err != nil {
		return nil, err
	}

	var projects []Project
	if err := db.Order("id").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	return projects, nil
}

// List pages through the catalog, most starred first.
func (p *Project) List(ctx context.Context, page, pageSize int) ([]Project, int64, error) {
	db, err := p.conn(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Model(&Project{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	var projects []Project
	offset := (page - 1) * pageSize
	if err := db.Order("stars DESC").Offset(offset).Limit(pageSize).Find(&projects).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// Create inserts one project; an id already in the catalog is left untouched.
func (p *Project) Create(ctx context.Context, project *Project) error {
	db, err := p.conn(ctx)
	if err != nil {
		return err
	}

	row := project.truncated()
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		p.Logger.Error(ctx, "Failed to create project %d: %v", project.ID, err)
		return err
	}

	p.Logger.Debug(ctx, "Stored project ID=%d", project.ID)
	return nil
}

func (p *Project) CreateBatch(ctx context.Context, projects []Project) error {
	db, err := p.conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	rows := make([]Project, 0, len(projects))
	for i := range projects {
		rows = append(rows, projects[i].truncated())
	}

	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).CreateInBatches(rows, 100)

		if result.Error != nil {
			return fmt.Errorf("failed to batch create projects: %w", result.Error)
		}

		return nil
	})
}

// UpdateField rewrites a single column of one project.
func (p *Project) UpdateField(ctx context.Context, id int64, field string, value interface{}) error {
	if field == "id" {
		return fmt.Errorf("%w: %s", ErrImmutableField, field)
	}
	if !slices.Contains(MutableFields, field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if langs, ok := value.([]string); ok {
		value = Languages(langs)
	}

	db, err := p.conn(ctx)
	if err != nil {
		return err
	}

	if err := db.Model(&Project{}).Where("id = ?", id).Update(field, value).Error; err != nil {
		return fmt.Errorf("failed to update %s of project %d: %w", field, id, err)
	}
	return nil
}

func (p *Project) Delete(ctx context.Context, id int64) error {
	db, err := p.conn(ctx)
	if err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(&Project{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete project %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete project %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (p *Project) truncated() Project {
	row := Project{
		ID:           p.ID,
		Name:         TruncateString(p.Name, 255),
		AvatarURL:    TruncateString(p.AvatarURL, 512),
		Description:  p.Description,
		Link:         TruncateString(p.Link, 512),
		Username:     TruncateString(p.Username, 255),
		Languages:    p.Languages,
		Stars:        p.Stars,
		Forks:        p.Forks,
		Contributors: p.Contributors,
		Followers:    p.Followers,
	}
	if row.Languages == nil {
		row.Languages = Languages{}
	}
	return row
}
