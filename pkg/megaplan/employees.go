package megaplan

import (
	"context"

	"github.com/tansive/megaplan/internal/common/formparams"
)

// Employees lists employees.
func (c *Client) Employees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	filter = filter.withDefaults()
	if err := validateStruct(filter); err != nil {
		return nil, err
	}
	var employees []Employee
	if err := c.fetch(ctx, employeePrefix+"list.api?"+filter.query(), nil, "data.employees", &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// EmployeeCard returns the full description of an employee.
func (c *Client) EmployeeCard(ctx context.Context, id int64) (*EmployeeCard, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	card := &EmployeeCard{}
	if err := c.fetch(ctx, employeePrefix+"card.api?"+formparams.QueryString("Id", formparams.Int64(id)), nil, "data.employee", card); err != nil {
		return nil, err
	}
	return card, nil
}

// EmployeeCreate creates an employee. Position is required.
func (c *Client) EmployeeCreate(ctx context.Context, m EmployeeModel) (*Created, error) {
	if m.Position == "" {
		return nil, ErrParameter.Msg("Position is required")
	}
	form, err := m.values()
	if err != nil {
		return nil, err
	}
	created := &Created{}
	if err := c.fetch(ctx, employeePrefix+"create.api", form, "data.employee", created); err != nil {
		return nil, err
	}
	return created, nil
}

// EmployeeEdit changes the non-zero fields of m on employee id.
func (c *Client) EmployeeEdit(ctx context.Context, id int64, m EmployeeModel) error {
	if err := validateID(id); err != nil {
		return err
	}
	form, err := m.values()
	if err != nil {
		return err
	}
	_, err = c.Call(ctx, employeePrefix+"edit.api", formparams.Merge(form, idValues(id)))
	return err
}

// EmployeeAvailableActions lists what the user may do with an employee, such
// as "act_edit" or "act_can_fire".
func (c *Client) EmployeeAvailableActions(ctx context.Context, id int64) ([]string, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	var actions []string
	if err := c.fetch(ctx, employeePrefix+"availableActions.api?"+formparams.QueryString("Id", formparams.Int64(id)), nil, "data.actions", &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// Departments lists the departments of the company.
func (c *Client) Departments(ctx context.Context) ([]Department, error) {
	var departments []Department
	if err := c.fetch(ctx, departmentPrefix+"list.api", nil, "data.departments", &departments); err != nil {
		return nil, err
	}
	return departments, nil
}
