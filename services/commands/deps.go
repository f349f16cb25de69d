package commands

import (
	"context"
	"fmt"

	"projecthub/microservices/progress-service/interfaces"
	"projecthub/microservices/progress-service/services"
)

// Dependencies are shared by every command handler.
type Dependencies struct {
	Svc         interfaces.ProgressCommandContext
	Progress    interfaces.ProgressTrigger
	Permissions services.Permissions
}

func (d *Dependencies) directory(ctx context.Context) (*services.EmployeeDirectory, error) {
	employees, err := d.Svc.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading employees: %w", err)
	}
	return services.NewEmployeeDirectory(employees), nil
}
