package megaplan

import (
	"encoding/base64"
	"net/url"

	"github.com/tansive/megaplan/internal/common/formparams"
)

// ListFilter selects tasks or projects. The zero value lists everything:
// folder "all", status "any".
type ListFilter struct {
	Folder        Folder `validate:"folder"`
	Status        Status `validate:"status"`
	FavoritesOnly bool
	Search        string
}

func (f ListFilter) withDefaults() ListFilter {
	if f.Folder == "" {
		f.Folder = FolderAll
	}
	if f.Status == "" {
		f.Status = StatusAny
	}
	return f
}

func (f ListFilter) query() string {
	return formparams.QueryString(
		"Folder", string(f.Folder),
		"Status", string(f.Status),
		"FavoritesOnly", formparams.Bool(f.FavoritesOnly),
		"Search", f.Search,
	)
}

// EmployeeFilter selects employees. The zero value lists every department
// ordered by name ascending.
type EmployeeFilter struct {
	Department int64           `validate:"gte=0"`
	OrderBy    EmployeeOrderBy `validate:"employeeOrderBy"`
	OrderDir   Order           `validate:"order"`
}

func (f EmployeeFilter) withDefaults() EmployeeFilter {
	if f.OrderBy == "" {
		f.OrderBy = EmployeeOrderByName
	}
	if f.OrderDir == "" {
		f.OrderDir = OrderAsc
	}
	return f
}

func (f EmployeeFilter) query() string {
	return formparams.QueryString(
		"Department", formparams.Int64(f.Department),
		"OrderBy", string(f.OrderBy),
		"OrderDir", string(f.OrderDir),
	)
}

// TaskModel holds the fields of a task to create or edit. Zero fields are not
// sent. Owner is only accepted on edit. SuperTask is a task id, or "p<id>" to
// put the task into a project.
type TaskModel struct {
	Name         string  `mapstructure:"Name,omitempty" yaml:"name,omitempty"`
	Deadline     string  `mapstructure:"Deadline,omitempty" yaml:"deadline,omitempty"`
	DeadlineDate string  `mapstructure:"DeadlineDate,omitempty" yaml:"deadlineDate,omitempty"`
	DeadlineType string  `mapstructure:"DeadlineType,omitempty" yaml:"deadlineType,omitempty"`
	Owner        int64   `mapstructure:"Owner,omitempty" yaml:"owner,omitempty" validate:"gte=0"`
	Responsible  int64   `mapstructure:"Responsible,omitempty" yaml:"responsible,omitempty" validate:"gte=0"`
	Executors    []int64 `mapstructure:"Executors,omitempty" yaml:"executors,omitempty" validate:"dive,gt=0"`
	Auditors     []int64 `mapstructure:"Auditors,omitempty" yaml:"auditors,omitempty" validate:"dive,gt=0"`
	Severity     int64   `mapstructure:"Severity,omitempty" yaml:"severity,omitempty" validate:"gte=0"`
	SuperTask    string  `mapstructure:"SuperTask,omitempty" yaml:"superTask,omitempty"`
	Customer     int64   `mapstructure:"Customer,omitempty" yaml:"customer,omitempty" validate:"gte=0"`
	IsGroup      bool    `mapstructure:"IsGroup,omitempty" yaml:"isGroup,omitempty"`
	Statement    string  `mapstructure:"Statement,omitempty" yaml:"statement,omitempty"`
}

// ProjectModel holds the fields of a project to create or edit. Owner is only
// accepted on edit.
type ProjectModel struct {
	Name         string  `mapstructure:"Name,omitempty" yaml:"name,omitempty"`
	Deadline     string  `mapstructure:"Deadline,omitempty" yaml:"deadline,omitempty"`
	DeadlineDate string  `mapstructure:"DeadlineDate,omitempty" yaml:"deadlineDate,omitempty"`
	DeadlineType string  `mapstructure:"DeadlineType,omitempty" yaml:"deadlineType,omitempty"`
	Owner        int64   `mapstructure:"Owner,omitempty" yaml:"owner,omitempty" validate:"gte=0"`
	Responsible  int64   `mapstructure:"Responsible,omitempty" yaml:"responsible,omitempty" validate:"gte=0"`
	Executors    []int64 `mapstructure:"Executors,omitempty" yaml:"executors,omitempty" validate:"dive,gt=0"`
	Auditors     []int64 `mapstructure:"Auditors,omitempty" yaml:"auditors,omitempty" validate:"dive,gt=0"`
	Severity     int64   `mapstructure:"Severity,omitempty" yaml:"severity,omitempty" validate:"gte=0"`
	SuperProject int64   `mapstructure:"SuperProject,omitempty" yaml:"superProject,omitempty" validate:"gte=0"`
	Customer     int64   `mapstructure:"Customer,omitempty" yaml:"customer,omitempty" validate:"gte=0"`
	Statement    string  `mapstructure:"Statement,omitempty" yaml:"statement,omitempty"`
}

// EmployeeModel holds the fields of an employee to create or edit. Position
// is required on create. The address is sent as Address[...] next to the
// Model[...] fields.
type EmployeeModel struct {
	LastName       string           `mapstructure:"LastName,omitempty" yaml:"lastName,omitempty"`
	FirstName      string           `mapstructure:"FirstName,omitempty" yaml:"firstName,omitempty"`
	MiddleName     string           `mapstructure:"MiddleName,omitempty" yaml:"middleName,omitempty"`
	Gender         Gender           `mapstructure:"Gender,omitempty" yaml:"gender,omitempty" validate:"omitempty,gender"`
	Position       string           `mapstructure:"Position,omitempty" yaml:"position,omitempty"`
	Birthday       string           `mapstructure:"Birthday,omitempty" yaml:"birthday,omitempty"`
	HideMyBirthday bool             `mapstructure:"HideMyBirthday,omitempty" yaml:"hideMyBirthday,omitempty"`
	Email          string           `mapstructure:"Email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Icq            string           `mapstructure:"Icq,omitempty" yaml:"icq,omitempty"`
	Skype          string           `mapstructure:"Skype,omitempty" yaml:"skype,omitempty"`
	Jabber         string           `mapstructure:"Jabber,omitempty" yaml:"jabber,omitempty"`
	Behaviour      string           `mapstructure:"Behaviour,omitempty" yaml:"behaviour,omitempty"`
	PassportData   string           `mapstructure:"PassportData,omitempty" yaml:"passportData,omitempty"`
	Inn            string           `mapstructure:"Inn,omitempty" yaml:"inn,omitempty"`
	AboutMe        string           `mapstructure:"AboutMe,omitempty" yaml:"aboutMe,omitempty"`
	Status         EmployeeStatus   `mapstructure:"Status,omitempty" yaml:"status,omitempty" validate:"omitempty,employeeStatus"`
	AppearanceDay  string           `mapstructure:"AppearanceDay,omitempty" yaml:"appearanceDay,omitempty"`
	Address        *EmployeeAddress `mapstructure:"Address,omitempty" yaml:"address,omitempty"`
}

// EmployeeAddress is sent as Address[City], Address[Street], Address[House].
type EmployeeAddress struct {
	City   string `mapstructure:"City,omitempty" yaml:"city,omitempty"`
	Street string `mapstructure:"Street,omitempty" yaml:"street,omitempty"`
	House  string `mapstructure:"House,omitempty" yaml:"house,omitempty"`
}

// CommentModel is the body of a new comment. Work is in minutes and is added
// to the commented task or project on WorkDate.
type CommentModel struct {
	Text     string       `mapstructure:"Text,omitempty" yaml:"text,omitempty"`
	Work     int          `mapstructure:"Work,omitempty" yaml:"work,omitempty" validate:"gte=0"`
	WorkDate string       `mapstructure:"WorkDate,omitempty" yaml:"workDate,omitempty"`
	Attaches []Attachment `mapstructure:"Attaches,omitempty" yaml:"attaches,omitempty" validate:"dive"`
}

// Attachment is a file sent with a comment. Content is base64.
type Attachment struct {
	Content string `mapstructure:"Content" yaml:"content" validate:"required,base64"`
	Name    string `mapstructure:"Name" yaml:"name" validate:"required"`
}

// NewAttachment encodes data as an attachment named name.
func NewAttachment(name string, data []byte) Attachment {
	return Attachment{
		Name:    name,
		Content: base64.StdEncoding.EncodeToString(data),
	}
}

const modelPrefix = "Model"

func (m TaskModel) values() (url.Values, error) {
	if err := validateStruct(m); err != nil {
		return nil, err
	}
	return encodeModel(m)
}

func (m ProjectModel) values() (url.Values, error) {
	if err := validateStruct(m); err != nil {
		return nil, err
	}
	return encodeModel(m)
}

func (m EmployeeModel) values() (url.Values, error) {
	if err := validateStruct(m); err != nil {
		return nil, err
	}
	address := m.Address
	m.Address = nil
	values, err := encodeModel(m)
	if err != nil {
		return nil, err
	}
	if address != nil {
		av, err := formparams.Encode("Address", *address)
		if err != nil {
			return nil, ErrParameter.Err(err)
		}
		formparams.Merge(values, av)
	}
	return values, nil
}

func (m CommentModel) values() (url.Values, error) {
	if err := validateStruct(m); err != nil {
		return nil, err
	}
	return encodeModel(m)
}

func encodeModel(m any) (url.Values, error) {
	values, err := formparams.Encode(modelPrefix, m)
	if err != nil {
		return nil, ErrParameter.Err(err)
	}
	return values, nil
}

func idValues(id int64) url.Values {
	return url.Values{"Id": {formparams.Int64(id)}}
}

func subjectValues(subjectType SubjectType, subjectID int64) url.Values {
	return url.Values{
		"SubjectType": {string(subjectType)},
		"SubjectId":   {formparams.Int64(subjectID)},
	}
}

func validateID(id int64) error {
	return validateVar("Id", id, "gt=0")
}
