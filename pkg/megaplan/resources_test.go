package megaplan

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/megaplan/internal/common/formparams"
	"github.com/tansive/megaplan/internal/megaplantest"
)

func TestTaskCreateAndEdit(t *testing.T) {
	srv := megaplantest.NewServer()
	defer srv.Close()
	srv.ReplyData("/BumsTaskApiV01/Task/create.api", `{"task":{"Id":1000042,"Name":"Prepare the report"}}`)
	srv.ReplyData("/BumsTaskApiV01/Task/edit.api", `[]`)

	c := newTestClient(t, srv)
	ctx := context.Background()

	created, err := c.TaskCreate(ctx, TaskModel{
		Name:        "Prepare the report",
		Responsible: 1000006,
		Executors:   []int64{1000007, 1000003},
		SuperTask:   "p12",
		IsGroup:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, &Created{ID: 1000042, Name: "Prepare the report"}, created)

	req, _ := srv.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
	assert.Equal(t, "Prepare the report", req.Form.Get("Model[Name]"))
	assert.Equal(t, "1000006", req.Form.Get("Model[Responsible]"))
	assert.Equal(t, []string{"1000007", "1000003"}, formparams.ListValues(req.Form, "Model", "Executors"))
	assert.Equal(t, "p12", req.Form.Get("Model[SuperTask]"))
	assert.Equal(t, "1", req.Form.Get("Model[IsGroup]"))
	assert.NotContains(t, req.Form, "Model[Auditors][]")
	assert.NotContains(t, req.Form, "Model[Owner]")

	require.NoError(t, c.TaskEdit(ctx, 1000042, TaskModel{Owner: 1000005, Statement: "Numbers for Q3"}))
	req, _ = srv.LastRequest()
	assert.Equal(t, "1000042", req.Form.Get("Id"))
	assert.Equal(t, "1000005", req.Form.Get("Model[Owner]"))
	assert.Equal(t, "Numbers for Q3", req.Form.Get("Model[Statement]"))
}

func TestTaskCardAndActions(t *testing.T) {
	srv := megaplantest.NewServer()
	defer srv.Close()
	srv.ReplyData("/BumsTaskApiV01/Task/card.api", `{"task":{
		"Id":7,"Name":"Release","Status":"accepted","Statement":"Ship 2.0","DeadlineType":"soft",
		"Executors":[{"Id":2,"Name":"Sidorov"}],"Auditors":[],
		"SubTasks":[{"Id":8,"Name":"Changelog","Favorite":0}],
		"Customer":{"Id":3,"Name":"ACME","Status":"active","Type":"company"}}}`)
	srv.ReplyData("/BumsTaskApiV01/Task/availableActions.api", `{"actions":["act_done","act_pause"]}`)
	srv.ReplyData("/BumsTaskApiV01/Task/action.api", `[]`)

	c := newTestClient(t, srv)
	ctx := context.Background()

	card, err := c.TaskCard(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Release", card.Name)
	assert.Equal(t, "Ship 2.0", card.Statement)
	assert.Equal(t, []Ref{{ID: 2, Name: "Sidorov"}}, card.Executors)
	assert.Equal(t, "Changelog", card.SubTasks[0].Name)
	assert.Equal(t, "company", card.Customer.Type)
	req, _ := srv.LastRequest()
	assert.Equal(t, "Id=7", req.RawQuery)

	actions, err := c.TaskAvailableActions(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []Action{ActionDone, ActionPause}, actions)

	require.NoError(t, c.TaskAction(ctx, 7, ActionPause))
	req, _ = srv.LastRequest()
	assert.Equal(t, "Action=act_pause&Id=7", req.Body)
}

func TestProjects(t *testing.T) {
	srv := megaplantest.NewServer()
	defer srv.Close()
	srv.ReplyData("/BumsProjectApiV01/Project/card.api", `{"project":{"Id":12,"Name":"Sales","SuperProject":{"Id":1,"Name":"Company"},"Tasks":[{"Id":7,"Name":"Release"}]}}`)
	srv.ReplyData("/BumsProjectApiV01/Project/create.api", `{"project":{"Id":13,"Name":"Support"}}`)
	srv.ReplyData("/BumsProjectApiV01/Project/edit.api", `[]`)
	srv.ReplyData("/BumsProjectApiV01/Project/action.api", `[]`)
	srv.ReplyData("/BumsProjectApiV01/Project/availableActions.api", `{"actions":["act_expire"]}`)

	c := newTestClient(t, srv)
	ctx := context.Background()

	card, err := c.ProjectCard(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, "Company", card.SuperProject.Name)
	assert.Equal(t, int64(7), card.Tasks[0].ID)

	created, err := c.ProjectCreate(ctx, ProjectModel{Name: "Support", SuperProject: 12, Auditors: []int64{4}})
	require.NoError(t, err)
	assert.Equal(t, int64(13), created.ID)
	req, _ := srv.LastRequest()
	assert.Equal(t, "12", req.Form.Get("Model[SuperProject]"))
	assert.Equal(t, []string{"4"}, formparams.ListValues(req.Form, "Model", "Auditors"))

	require.NoError(t, c.ProjectEdit(ctx, 13, ProjectModel{Name: "Customer support"}))
	req, _ = srv.LastRequest()
	assert.Equal(t, "13", req.Form.Get("Id"))

	require.NoError(t, c.ProjectAction(ctx, 13, ActionExpire))
	actions, err := c.ProjectAvailableActions(ctx, 13)
	require.NoError(t, err)
	assert.Equal(t, []Action{ActionExpire}, actions)
}

func TestEmployees(t *testing.T) {
	srv := megaplantest.NewServer()
	defer srv.Close()
	srv.ReplyData("/BumsStaffApiV01/Employee/list.api", `{"employees":[{"Id":1000006,"Name":"Ivan Ivanov","Position":{"Id":3,"Name":"Manager"},"Phones":["+7 495 000-00-00"],"Status":{"Id":1,"Name":"in-office"}}]}`)
	srv.ReplyData("/BumsStaffApiV01/Employee/card.api", `{"employee":{"Id":1000006,"Name":"Ivan Ivanov","Gender":"male","Age":33,"Address":{"Id":5,"City":"Moscow","Street":"Tverskaya","House":"1"},"Coordinators":[{"Id":2,"Name":"Petrov"}]}}`)
	srv.ReplyData("/BumsStaffApiV01/Employee/create.api", `{"employee":{"Id":1000010,"Name":"Anna Smirnova"}}`)
	srv.ReplyData("/BumsStaffApiV01/Employee/edit.api", `[]`)
	srv.ReplyData("/BumsStaffApiV01/Employee/availableActions.api", `{"actions":["act_edit","act_can_fire"]}`)

	c := newTestClient(t, srv)
	ctx := context.Background()

	employees, err := c.Employees(ctx, EmployeeFilter{Department: 4, OrderDir: OrderDesc})
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Manager", employees[0].Position.Name)
	assert.Equal(t, "in-office", employees[0].Status.Name)
	req, _ := srv.LastRequest()
	assert.Equal(t, "Department=4&OrderBy=name&OrderDir=desc", req.RawQuery)

	card, err := c.EmployeeCard(ctx, 1000006)
	require.NoError(t, err)
	assert.Equal(t, "Moscow", card.Address.City)
	assert.Equal(t, 33, card.Age)

	created, err := c.EmployeeCreate(ctx, EmployeeModel{
		FirstName: "Anna",
		LastName:  "Smirnova",
		Position:  "Accountant",
		Gender:    GenderFemale,
		Status:    EmployeeInOffice,
		Email:     "anna@example.org",
		Address:   &EmployeeAddress{City: "Moscow", House: "12"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000010), created.ID)
	req, _ = srv.LastRequest()
	assert.Equal(t, "Accountant", req.Form.Get("Model[Position]"))
	assert.Equal(t, "female", req.Form.Get("Model[Gender]"))
	assert.Equal(t, "in-office", req.Form.Get("Model[Status]"))
	assert.Equal(t, "Moscow", req.Form.Get("Address[City]"))
	assert.Equal(t, "12", req.Form.Get("Address[House]"))
	assert.NotContains(t, req.Form, "Address[Street]")
	assert.NotContains(t, req.Form, "Model[Address][City]")

	require.NoError(t, c.EmployeeEdit(ctx, 1000010, EmployeeModel{Skype: "anna.s"}))
	req, _ = srv.LastRequest()
	assert.Equal(t, "1000010", req.Form.Get("Id"))
	assert.Equal(t, "anna.s", req.Form.Get("Model[Skype]"))

	actions, err := c.EmployeeAvailableActions(ctx, 1000010)
	require.NoError(t, err)
	assert.Equal(t, []string{"act_edit", "act_can_fire"}, actions)
}

func TestComments(t *testing.T) {
	srv := megaplantest.NewServer()
	defer srv.Close()
	srv.ReplyData("/BumsCommonApiV01/Comment/list.api", `{"comments":[{"Id":1,"Text":"Done","Work":30,"Author":{"Id":2,"Name":"Sidorov"}}]}`)
	srv.ReplyData("/BumsCommonApiV01/Comment/create.api", `{"comment":{"Id":2,"Text":"See attached","Work":60}}`)

	c := newTestClient(t, srv)
	ctx := context.Background()

	comments, err := c.Comments(ctx, SubjectProject, 12, "")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Sidorov", comments[0].Author.Name)
	req, _ := srv.LastRequest()
	assert.Equal(t, "SubjectType=project&SubjectId=12&Order=asc", req.RawQuery)

	comment, err := c.CommentCreate(ctx, SubjectTask, 7, CommentModel{
		Text:     "See attached",
		Work:     60,
		Attaches: []Attachment{NewAttachment("report.txt", []byte("totals"))},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), comment.ID)

	req, _ = srv.LastRequest()
	assert.Equal(t, "task", req.Form.Get("SubjectType"))
	assert.Equal(t, "7", req.Form.Get("SubjectId"))
	assert.Equal(t, "See attached", req.Form.Get("Model[Text]"))
	assert.Equal(t, "60", req.Form.Get("Model[Work]"))
	assert.Equal(t, "report.txt", req.Form.Get("Model[Attaches][0][Name]"))
	assert.Equal(t, "dG90YWxz", req.Form.Get("Model[Attaches][0][Content]"))
}

func TestFavoritesSearchAndInformer(t *testing.T) {
	srv := megaplantest.NewServer()
	defer srv.Close()
	srv.ReplyData("/BumsCommonApiV01/Favorite/list.api", `{"Tasks":[{"Id":7,"Name":"Release"}],"Projects":[{"Id":12,"Name":"Sales"}]}`)
	srv.ReplyData("/BumsCommonApiV01/Favorite/add.api", `[]`)
	srv.ReplyData("/BumsCommonApiV01/Favorite/remove.api", `[]`)
	srv.ReplyData("/BumsCommonApiV01/Search/quick.api", `{"Employees":[{"Id":1,"Name":"Ivanov"}],"Tasks":[],"Projects":[]}`)
	srv.ReplyData("/BumsCommonApiV01/Informer/notifications.api", `{"notifications":[
		{"Id":1,"Subject":{"Id":7,"Name":"Release","Type":"task"},"Content":"Task is overdue"},
		{"Id":2,"Subject":{"Id":9,"Name":"Comment","Type":"comment"},"Content":{"Subject":{"Id":7,"Name":"Release","Type":"task"},"Text":"Looks good","Author":{"Id":2,"Name":"Sidorov"}}}]}`)
	srv.ReplyData("/BumsCommonApiV01/Informer/deactivateNotification.api", `[]`)

	c := newTestClient(t, srv)
	ctx := context.Background()

	favorites, err := c.Favorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Release", favorites.Tasks[0].Name)
	assert.Equal(t, "Sales", favorites.Projects[0].Name)

	require.NoError(t, c.TaskMarkAsFavorite(ctx, 7, true))
	req, _ := srv.LastRequest()
	assert.Equal(t, "/BumsCommonApiV01/Favorite/add.api", req.Path)
	assert.Equal(t, "SubjectId=7&SubjectType=task", req.Body)

	require.NoError(t, c.ProjectMarkAsFavorite(ctx, 12, false))
	req, _ = srv.LastRequest()
	assert.Equal(t, "/BumsCommonApiV01/Favorite/remove.api", req.Path)
	assert.Equal(t, "project", req.Form.Get("SubjectType"))

	result, err := c.Search(ctx, "Ivanov")
	require.NoError(t, err)
	assert.Equal(t, "Ivanov", result.Employees[0].Name)
	req, _ = srv.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "qs=Ivanov", req.Body)

	notifications, err := c.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "Task is overdue", notifications[0].Text())
	assert.Equal(t, "Looks good", notifications[1].Text())
	assert.Equal(t, "comment", notifications[1].Subject.Type)

	require.NoError(t, c.NotificationDeactivate(ctx, 2))
	req, _ = srv.LastRequest()
	assert.Equal(t, "Id=2", req.Body)
}

func TestSearchNoResults(t *testing.T) {
	srv := megaplantest.NewServer()
	defer srv.Close()
	srv.ReplyError("/BumsCommonApiV01/Search/quick.api", "No results")

	c := newTestClient(t, srv)
	_, err := c.Search(context.Background(), "nothing like this")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "No results", svcErr.Message)
}

func TestCallReturnsResponse(t *testing.T) {
	srv := megaplantest.NewServer()
	defer srv.Close()
	srv.ReplyData("/BumsTaskApiV01/Task/list.api", taskList)

	c := newTestClient(t, srv)
	r, err := c.Call(context.Background(), "BumsTaskApiV01/Task/list.api?Folder=all&Status=any&FavoritesOnly=0&Search=", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", r.Status())
	assert.Equal(t, "Call the customer", r.Get("data.tasks.1.Name").String())
	assert.Len(t, r.Data().Get("tasks").Array(), 2)

	var names []string
	require.NoError(t, r.Decode("data.tasks.#.Name", &names))
	assert.Equal(t, []string{"Prepare the quarterly report", "Call the customer"}, names)

	var missing []Task
	require.NoError(t, r.Decode("data.projects", &missing))
	assert.Nil(t, missing)
}
