package queries

import (
	"context"
	"fmt"

	"projecthub/microservices/progress-service/interfaces"
	"projecthub/microservices/progress-service/services"
)

// Dependencies are shared by every query.
type Dependencies struct {
	Svc         interfaces.ProgressQueryContext
	Visibility  services.VisibilityFilter
	Calculator  services.ProjectCalculator
	Progress    *services.SynchronizerRegistry
	Activity    interfaces.ActivityStore
	Concurrency int
}

func (d *Dependencies) directory(ctx context.Context) (*services.EmployeeDirectory, error) {
	employees, err := d.Svc.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading employees: %w", err)
	}
	return services.NewEmployeeDirectory(employees), nil
}

func (d *Dependencies) concurrency() int {
	if d.Concurrency < 1 {
		return 4
	}
	return d.Concurrency
}
