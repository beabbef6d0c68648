package megaplan

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

// Ref is the {Id, Name} pair the service uses for every reference to another
// object: owners, severities, departments and so on.
type Ref struct {
	ID   int64  `json:"Id"`
	Name string `json:"Name"`
}

// Task is an element of the task list.
type Task struct {
	ID          int64  `json:"Id"`
	Name        string `json:"Name"`
	Status      string `json:"Status"`
	Deadline    string `json:"Deadline,omitempty"`
	Owner       *Ref   `json:"Owner,omitempty"`
	Responsible *Ref   `json:"Responsible,omitempty"`
	Severity    *Ref   `json:"Severity,omitempty"`
	SuperTask   *Ref   `json:"SuperTask,omitempty"`
	Project     *Ref   `json:"Project,omitempty"`
	Favorite    int    `json:"Favorite"`
	TimeCreated string `json:"TimeCreated,omitempty"`
}

// Customer of a task or project.
type Customer struct {
	ID     int64  `json:"Id"`
	Name   string `json:"Name"`
	Status string `json:"Status,omitempty"`
	Type   string `json:"Type,omitempty"`
}

// SubItem is a subtask, subproject or project task as listed in a card.
type SubItem struct {
	ID          int64  `json:"Id"`
	Name        string `json:"Name"`
	Owner       *Ref   `json:"Owner,omitempty"`
	Responsible *Ref   `json:"Responsible,omitempty"`
	Deadline    string `json:"Deadline,omitempty"`
	Favorite    int    `json:"Favorite"`
}

// TaskCard is the full description of a task.
type TaskCard struct {
	Task
	Statement    string    `json:"Statement,omitempty"`
	DeadlineType string    `json:"DeadlineType,omitempty"`
	Executors    []Ref     `json:"Executors,omitempty"`
	Auditors     []Ref     `json:"Auditors,omitempty"`
	SubTasks     []SubItem `json:"SubTasks,omitempty"`
	Customer     *Customer `json:"Customer,omitempty"`
}

// Project is an element of the project list.
type Project struct {
	ID           int64  `json:"Id"`
	Name         string `json:"Name"`
	Status       string `json:"Status"`
	Deadline     string `json:"Deadline,omitempty"`
	Owner        *Ref   `json:"Owner,omitempty"`
	Responsible  *Ref   `json:"Responsible,omitempty"`
	Severity     *Ref   `json:"Severity,omitempty"`
	SuperProject *Ref   `json:"SuperProject,omitempty"`
	Favorite     int    `json:"Favorite"`
	TimeCreated  string `json:"TimeCreated,omitempty"`
}

// ProjectCard is the full description of a project.
type ProjectCard struct {
	Project
	Statement    string    `json:"Statement,omitempty"`
	DeadlineType string    `json:"DeadlineType,omitempty"`
	Executors    []Ref     `json:"Executors,omitempty"`
	Auditors     []Ref     `json:"Auditors,omitempty"`
	SubProjects  []SubItem `json:"SubProjects,omitempty"`
	Tasks        []SubItem `json:"Tasks,omitempty"`
	Customer     *Customer `json:"Customer,omitempty"`
}

// Severity is a task importance level.
type Severity = Ref

// Employee is an element of the employee list.
type Employee struct {
	ID          int64    `json:"Id"`
	Name        string   `json:"Name"`
	LastName    string   `json:"LastName,omitempty"`
	FirstName   string   `json:"FirstName,omitempty"`
	MiddleName  string   `json:"MiddleName,omitempty"`
	Position    *Ref     `json:"Position,omitempty"`
	Department  *Ref     `json:"Department,omitempty"`
	Phones      []string `json:"Phones,omitempty"`
	Email       string   `json:"Email,omitempty"`
	Status      *Ref     `json:"Status,omitempty"`
	TimeCreated string   `json:"TimeCreated,omitempty"`
}

// Address of an employee.
type Address struct {
	ID     int64  `json:"Id,omitempty"`
	City   string `json:"City,omitempty"`
	Street string `json:"Street,omitempty"`
	House  string `json:"House,omitempty"`
}

// EmployeeCard is the full description of an employee.
type EmployeeCard struct {
	Employee
	Gender                string   `json:"Gender,omitempty"`
	Birthday              string   `json:"Birthday,omitempty"`
	HideMyBirthday        bool     `json:"HideMyBirthday,omitempty"`
	Age                   int      `json:"Age,omitempty"`
	Icq                   string   `json:"Icq,omitempty"`
	Skype                 string   `json:"Skype,omitempty"`
	Jabber                string   `json:"Jabber,omitempty"`
	Address               *Address `json:"Address,omitempty"`
	Behaviour             string   `json:"Behaviour,omitempty"`
	Inn                   string   `json:"Inn,omitempty"`
	PassportData          string   `json:"PassportData,omitempty"`
	AboutMe               string   `json:"AboutMe,omitempty"`
	ChiefsWithoutMe       []Ref    `json:"ChiefsWithoutMe,omitempty"`
	SubordinatesWithoutMe []Ref    `json:"SubordinatesWithoutMe,omitempty"`
	Coordinators          []Ref    `json:"Coordinators,omitempty"`
	AppearanceDay         string   `json:"AppearanceDay,omitempty"`
	FireDay               string   `json:"FireDay,omitempty"`
	Avatar                string   `json:"Avatar,omitempty"`
	Photo                 string   `json:"Photo,omitempty"`
}

// Department of the company.
type Department struct {
	ID             int64  `json:"Id"`
	Name           string `json:"Name"`
	Head           *Ref   `json:"Head,omitempty"`
	Employees      []Ref  `json:"Employees,omitempty"`
	EmployeesCount int    `json:"EmployeesCount"`
}

// Comment on a task or project. Work is in minutes.
type Comment struct {
	ID          int64  `json:"Id"`
	Text        string `json:"Text"`
	Work        int    `json:"Work,omitempty"`
	WorkDate    string `json:"WorkDate,omitempty"`
	TimeCreated string `json:"TimeCreated,omitempty"`
	Author      *Ref   `json:"Author,omitempty"`
	Avatar      string `json:"Avatar,omitempty"`
}

// NotificationSubject is the object a notification is about.
type NotificationSubject struct {
	ID   int64  `json:"Id"`
	Name string `json:"Name"`
	Type string `json:"Type"` // task, project, employee or comment
}

// Notification is an entry of the informer. Content is plain text for every
// subject type but comments, where it is an object with Subject, Text and
// Author.
type Notification struct {
	ID          int64               `json:"Id"`
	Subject     NotificationSubject `json:"Subject"`
	Content     jsoniter.RawMessage `json:"Content,omitempty"`
	TimeCreated string              `json:"TimeCreated,omitempty"`
}

// Text returns the notification text whatever the shape of Content.
func (n Notification) Text() string {
	c := gjson.ParseBytes(n.Content)
	if c.IsObject() {
		return c.Get("Text").String()
	}
	return c.String()
}

// Favorites are the tasks and projects the user marked.
type Favorites struct {
	Tasks    []Task    `json:"Tasks"`
	Projects []Project `json:"Projects"`
}

// Approvals are the tasks and projects waiting for the user's decision.
type Approvals struct {
	Tasks    []Task    `json:"Tasks"`
	Projects []Project `json:"Projects"`
}

// SearchResult of a quick search.
type SearchResult struct {
	Employees []Employee `json:"Employees"`
	Tasks     []Task     `json:"Tasks"`
	Projects  []Project  `json:"Projects"`
}

// Created identifies an object returned by a create call.
type Created struct {
	ID   int64  `json:"Id"`
	Name string `json:"Name"`
}
