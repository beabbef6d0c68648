package megaplan

// Folder selects which tasks or projects a list returns relative to the
// current user.
type Folder string

const (
	FolderIncoming    Folder = "incoming"
	FolderResponsible Folder = "responsible"
	FolderExecutor    Folder = "executor"
	FolderOwner       Folder = "owner"
	FolderAuditor     Folder = "auditor"
	FolderAll         Folder = "all"
)

// Status filters tasks and projects by state.
type Status string

const (
	StatusActual    Status = "actual"
	StatusInProcess Status = "inprocess"
	StatusNew       Status = "new"
	StatusOverdue   Status = "overdue"
	StatusDone      Status = "done"
	StatusDelayed   Status = "delayed"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusAny       Status = "any"
)

// Action is a state transition of a task or project.
type Action string

const (
	ActionAcceptTask Action = "act_accept_task"
	ActionRejectTask Action = "act_reject_task"
	ActionAcceptWork Action = "act_accept_work"
	ActionRejectWork Action = "act_reject_work"
	ActionDone       Action = "act_done"
	ActionPause      Action = "act_pause"
	ActionResume     Action = "act_resume"
	ActionCancel     Action = "act_cancel"
	ActionExpire     Action = "act_expire"
	ActionRenew      Action = "act_renew"
)

// SubjectType names the kind of object comments and favorites attach to.
type SubjectType string

const (
	SubjectTask    SubjectType = "task"
	SubjectProject SubjectType = "project"
)

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// EmployeeOrderBy is the sort key of the employee list.
type EmployeeOrderBy string

const (
	EmployeeOrderByName       EmployeeOrderBy = "name"
	EmployeeOrderByDepartment EmployeeOrderBy = "department"
	EmployeeOrderByPosition   EmployeeOrderBy = "position"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// EmployeeStatus is the presence of an employee.
type EmployeeStatus string

const (
	EmployeeInOffice    EmployeeStatus = "in-office"
	EmployeeOutOfOffice EmployeeStatus = "out-of-office"
)

var (
	folders          = []string{"incoming", "responsible", "executor", "owner", "auditor", "all"}
	statuses         = []string{"actual", "inprocess", "new", "overdue", "done", "delayed", "completed", "failed", "any"}
	actions          = []string{"act_accept_task", "act_reject_task", "act_accept_work", "act_reject_work", "act_done", "act_pause", "act_resume", "act_cancel", "act_expire", "act_renew"}
	subjectTypes     = []string{"task", "project"}
	orders           = []string{"asc", "desc"}
	employeeOrderBys = []string{"name", "department", "position"}
	genders          = []string{"male", "female"}
	employeeStatuses = []string{"in-office", "out-of-office"}
)

// Folders lists the accepted Folder values.
func Folders() []string { return clone(folders) }

// Statuses lists the accepted Status values.
func Statuses() []string { return clone(statuses) }

// Actions lists the accepted Action values.
func Actions() []string { return clone(actions) }

// SubjectTypes lists the accepted SubjectType values.
func SubjectTypes() []string { return clone(subjectTypes) }

func clone(s []string) []string {
	return append([]string(nil), s...)
}
