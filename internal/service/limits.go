package service

import "fmt"

// Default caps
const (
	DefaultMaxProjects        = 100
	DefaultMaxTasksPerProject = 1000
)

// Limits caps the number of stored entities
type Limits struct {
	MaxProjects        int
	MaxTasksPerProject int
}

// DefaultLimits returns the default caps
func DefaultLimits() Limits {
	return Limits{
		MaxProjects:        DefaultMaxProjects,
		MaxTasksPerProject: DefaultMaxTasksPerProject,
	}
}

// Validate rejects non-positive caps
func (l Limits) Validate() error {
	if l.MaxProjects <= 0 {
		return fmt.Errorf("max projects must be positive, got %d", l.MaxProjects)
	}
	if l.MaxTasksPerProject <= 0 {
		return fmt.Errorf("max tasks per project must be positive, got %d", l.MaxTasksPerProject)
	}
	return nil
}
