package model

import (
	"time"
)

// Project is a named container of tasks
type Project struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Computed fields (not stored)
	TaskCount int `json:"task_count" db:"task_count"`
}

// ProjectPatch holds the fields of a partial update; nil means unchanged
type ProjectPatch struct {
	Name        *string
	Description *string
}

// IsEmpty reports whether the patch changes nothing
func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil
}

// NewProject validates the fields and returns a project
func NewProject(id int64, name, description string, createdAt time.Time) (*Project, error) {
	name, err := ValidateText(name, "project name", MaxNameLength, false)
	if err != nil {
		return nil, err
	}
	description, err = ValidateText(description, "project description", MaxDescriptionLength, true)
	if err != nil {
		return nil, err
	}

	return &Project{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   createdAt,
	}, nil
}

// Apply validates every supplied field before changing any of them
func (p *Project) Apply(patch ProjectPatch) error {
	name, description := p.Name, p.Description

	if patch.Name != nil {
		v, err := ValidateText(*patch.Name, "project name", MaxNameLength, false)
		if err != nil {
			return err
		}
		name = v
	}
	if patch.Description != nil {
		v, err := ValidateText(*patch.Description, "project description", MaxDescriptionLength, true)
		if err != nil {
			return err
		}
		description = v
	}

	p.Name = name
	p.Description = description
	return nil
}
