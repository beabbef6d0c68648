package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tansive/megaplan/pkg/megaplan"
)

var employeesCmd = &cobra.Command{
	Use:   "employees [flags]",
	Short: "List employees",
	Long: `List employees of the company.

Examples:
  megaplan employees
  megaplan employees --department 2 --order-by position --order desc`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		department, _ := cmd.Flags().GetInt64("department")
		orderBy, _ := cmd.Flags().GetString("order-by")
		order, _ := cmd.Flags().GetString("order")
		filter := megaplan.EmployeeFilter{
			Department: department,
			OrderBy:    megaplan.EmployeeOrderBy(orderBy),
			OrderDir:   megaplan.Order(order),
		}

		var employees []megaplan.Employee
		err := run(func(ctx context.Context, c *apiClient) (err error) {
			employees, err = c.Employees(ctx, filter)
			return err
		})
		if err != nil {
			return err
		}
		rows := make([]row, 0, len(employees))
		for _, e := range employees {
			rows = append(rows, row{ID: e.ID, Name: e.Name, Detail: details(refName(e.Position), refName(e.Department))})
		}
		return printList(cmd.OutOrStdout(), "employees", employees, rows)
	},
}

var employeeCmd = &cobra.Command{
	Use:   "employee EMPLOYEE_ID",
	Short: "Show and change an employee",
	Long: `Show the card of an employee, or create and edit employees with the subcommands.

Examples:
  megaplan employee 1000005
  megaplan employee create --last-name Ivanov --first-name Ivan --position Manager`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var card *megaplan.EmployeeCard
		err = run(func(ctx context.Context, c *apiClient) (err error) {
			card, err = c.EmployeeCard(ctx, id)
			return err
		})
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), "", card)
	},
}

func employeeModelFromFlags(cmd *cobra.Command) megaplan.EmployeeModel {
	f := cmd.Flags()
	var m megaplan.EmployeeModel
	m.LastName, _ = f.GetString("last-name")
	m.FirstName, _ = f.GetString("first-name")
	m.MiddleName, _ = f.GetString("middle-name")
	m.Position, _ = f.GetString("position")
	m.Email, _ = f.GetString("email")
	m.Skype, _ = f.GetString("skype")
	m.Birthday, _ = f.GetString("birthday")
	gender, _ := f.GetString("gender")
	m.Gender = megaplan.Gender(gender)
	status, _ := f.GetString("presence")
	m.Status = megaplan.EmployeeStatus(status)

	var addr megaplan.EmployeeAddress
	addr.City, _ = f.GetString("city")
	addr.Street, _ = f.GetString("street")
	addr.House, _ = f.GetString("house")
	if addr != (megaplan.EmployeeAddress{}) {
		m.Address = &addr
	}
	return m
}

var employeeCreateCmd = &cobra.Command{
	Use:   "create [flags]",
	Short: "Create employees",
	Long: `Create an employee from flags, or one employee per document of a YAML file.
The position is required.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		models, err := modelSource(cmd, func() megaplan.EmployeeModel { return employeeModelFromFlags(cmd) })
		if err != nil {
			return err
		}
		var created []*megaplan.Created
		err = run(func(ctx context.Context, c *apiClient) error {
			for _, m := range models {
				ref, err := c.EmployeeCreate(ctx, m)
				if err != nil {
					return err
				}
				created = append(created, ref)
			}
			return nil
		})
		if len(created) > 0 {
			rows := make([]row, 0, len(created))
			for _, ref := range created {
				rows = append(rows, row{ID: ref.ID, Name: ref.Name})
			}
			if perr := printList(cmd.OutOrStdout(), "created", created, rows); perr != nil {
				return perr
			}
		}
		return err
	},
}

var employeeEditCmd = &cobra.Command{
	Use:   "edit EMPLOYEE_ID [flags]",
	Short: "Edit an employee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		m := employeeModelFromFlags(cmd)
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			if m, err = loadModel[megaplan.EmployeeModel](file); err != nil {
				return err
			}
		}
		err = run(func(ctx context.Context, c *apiClient) error {
			return c.EmployeeEdit(ctx, id, m)
		})
		if err != nil {
			return err
		}
		return printDone(cmd.OutOrStdout(), fmt.Sprintf("Employee %d updated", id))
	},
}

var employeeActionsCmd = &cobra.Command{
	Use:   "actions EMPLOYEE_ID",
	Short: "List the actions available on an employee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var actions []string
		err = run(func(ctx context.Context, c *apiClient) (err error) {
			actions, err = c.EmployeeAvailableActions(ctx, id)
			return err
		})
		if err != nil {
			return err
		}
		return printList(cmd.OutOrStdout(), "actions", actions, actionRows(actions))
	},
}

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "List departments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var departments []megaplan.Department
		err := run(func(ctx context.Context, c *apiClient) (err error) {
			departments, err = c.Departments(ctx)
			return err
		})
		if err != nil {
			return err
		}
		rows := make([]row, 0, len(departments))
		for _, d := range departments {
			rows = append(rows, row{ID: d.ID, Name: d.Name, Detail: details(refName(d.Head), fmt.Sprintf("%d employees", d.EmployeesCount))})
		}
		return printList(cmd.OutOrStdout(), "departments", departments, rows)
	},
}

func init() {
	employeesCmd.Flags().Int64("department", 0, "Department id")
	employeesCmd.Flags().String("order-by", "", "Sort key: name, department or position")
	employeesCmd.Flags().String("order", "", "Sort direction: asc or desc")

	for _, c := range []*cobra.Command{employeeCreateCmd, employeeEditCmd} {
		c.Flags().StringP("file", "f", "", "YAML file with one or more models, - for stdin")
		c.Flags().String("last-name", "", "Last name")
		c.Flags().String("first-name", "", "First name")
		c.Flags().String("middle-name", "", "Middle name")
		c.Flags().String("position", "", "Position")
		c.Flags().String("email", "", "Email")
		c.Flags().String("skype", "", "Skype")
		c.Flags().String("birthday", "", "Birthday, e.g. 1980-04-12")
		c.Flags().String("gender", "", "Gender: male or female")
		c.Flags().String("presence", "", "Status: in-office or out-of-office")
		c.Flags().String("city", "", "Address city")
		c.Flags().String("street", "", "Address street")
		c.Flags().String("house", "", "Address house")
	}

	employeeCmd.AddCommand(employeeCreateCmd, employeeEditCmd, employeeActionsCmd)
	rootCmd.AddCommand(employeesCmd, employeeCmd, departmentsCmd)
}
