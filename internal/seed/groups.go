package seed

import (
	_ "embed"
	"fmt"

	"postboard/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed groups.yml
var groupsYAML []byte

// GroupSpec is one entry of groups.yml.
type GroupSpec struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// BuiltInGroups parses the embedded group list.
func BuiltInGroups() ([]GroupSpec, error) {
	var specs []GroupSpec
	if err := yaml.Unmarshal(groupsYAML, &specs); err != nil {
		return nil, fmt.Errorf("parse groups.yml: %w", err)
	}
	for i, s := range specs {
		if s.Title == "" || s.Slug == "" {
			return nil, fmt.Errorf("groups.yml entry %d: title and slug are required", i)
		}
	}
	return specs, nil
}

// Groups upserts the built-in groups by slug. Running it twice is a no-op.
func Groups(db *gorm.DB) ([]models.Group, error) {
	specs, err := BuiltInGroups()
	if err != nil {
		return nil, err
	}

	groups := make([]models.Group, 0, len(specs))
	for _, item := range specs {
		group := models.Group{
			Title:       item.Title,
			Slug:        item.Slug,
			Description: item.Description,
		}
		if err := db.Omit("CreatedByUser").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "updated_at"}),
		}).Create(&group).Error; err != nil {
			return nil, fmt.Errorf("seed group %s: %w", item.Slug, err)
		}
		var stored models.Group
		if err := db.Where("slug = ?", item.Slug).First(&stored).Error; err != nil {
			return nil, err
		}
		groups = append(groups, stored)
	}
	return groups, nil
}
