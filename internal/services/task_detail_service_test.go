package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskDetailServiceTestSuite defines the test suite for TaskDetailService
type TaskDetailServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskDetailService
}

// SetupTest runs before each test
func (suite *TaskDetailServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskDetail{},
	)
	suite.Require().NoError(err)

	detailRepo := repository.NewTaskDetailRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	suite.service = NewTaskDetailService(detailRepo, taskRepo).WithClock(func() time.Time { return fixedNow })
}

// TearDownTest runs after each test
func (suite *TaskDetailServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskDetailServiceTestSuite) createTestUser(username string, role models.UserRole) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     username,
		PasswordHash: "hashedpassword",
		Role:         role,
		Status:       models.UserStatusActive,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskDetailServiceTestSuite) createTestTask(title string, creatorID uint64) *models.Task {
	task := &models.Task{
		Title:     title,
		Status:    models.TaskStatusPending,
		Priority:  models.TaskPriorityMedium,
		CreatorID: creatorID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *TaskDetailServiceTestSuite) addChecklistItem(actor *models.User, taskID uint64, title string) *models.TaskDetail {
	detail, err := suite.service.AddDetail(actor, taskID, AddDetailInput{
		Kind:  models.DetailKindChecklistItem,
		Title: &title,
	})
	suite.Require().NoError(err)
	return detail
}

func (suite *TaskDetailServiceTestSuite) TestAddDetail_Comment() {
	user := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask("Discussed", user.ID)

	detail, err := suite.service.AddDetail(user, task.ID, AddDetailInput{
		Kind:    models.DetailKindComment,
		Content: ptr("looks good"),
	})

	suite.NoError(err)
	suite.Equal(models.DetailKindComment, detail.Kind)
	suite.Equal(user.ID, detail.CreatorID)
	suite.Nil(detail.OrderIndex)
}

func (suite *TaskDetailServiceTestSuite) TestAddDetail_InvalidKind() {
	user := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask("T", user.ID)

	_, err := suite.service.AddDetail(user, task.ID, AddDetailInput{
		Kind: models.TaskDetailKind("SCREENSHOT"),
	})

	suite.ErrorIs(err, ErrInvalidDetailKind)
}

func (suite *TaskDetailServiceTestSuite) TestAddDetail_FileMetaOnlyOnAttachments() {
	user := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask("T", user.ID)

	_, err := suite.service.AddDetail(user, task.ID, AddDetailInput{
		Kind:     models.DetailKindComment,
		FileName: ptr("report.pdf"),
	})
	suite.ErrorIs(err, ErrDetailFieldMismatch)

	detail, err := suite.service.AddDetail(user, task.ID, AddDetailInput{
		Kind:     models.DetailKindAttachment,
		FileName: ptr("report.pdf"),
		FilePath: ptr("/uploads/report.pdf"),
		FileSize: ptr(int64(2048)),
		MimeType: ptr("application/pdf"),
	})
	suite.NoError(err)
	suite.Equal("report.pdf", *detail.FileName)
}

func (suite *TaskDetailServiceTestSuite) TestAddDetail_ChecklistItemsGetSequentialOrder() {
	user := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask("Checklist host", user.ID)

	first := suite.addChecklistItem(user, task.ID, "step one")
	second := suite.addChecklistItem(user, task.ID, "step two")

	suite.Require().NotNil(first.OrderIndex)
	suite.Require().NotNil(second.OrderIndex)
	suite.Equal(0, *first.OrderIndex)
	suite.Equal(1, *second.OrderIndex)
	suite.Require().NotNil(first.IsCompleted)
	suite.False(*first.IsCompleted)
}

func (suite *TaskDetailServiceTestSuite) TestAddDetail_StrangerDenied() {
	creator := suite.createTestUser("alice", models.RoleUser)
	stranger := suite.createTestUser("mallory", models.RoleUser)
	task := suite.createTestTask("Private", creator.ID)

	_, err := suite.service.AddDetail(stranger, task.ID, AddDetailInput{
		Kind:    models.DetailKindComment,
		Content: ptr("let me in"),
	})

	suite.ErrorIs(err, ErrTaskPermissionDenied)
}

func (suite *TaskDetailServiceTestSuite) TestListDetails_FilterByKind() {
	user := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask("Mixed", user.ID)
	_, err := suite.service.AddDetail(user, task.ID, AddDetailInput{
		Kind:    models.DetailKindComment,
		Content: ptr("hello"),
	})
	suite.Require().NoError(err)
	suite.addChecklistItem(user, task.ID, "step")

	kind := models.DetailKindComment
	details, err := suite.service.ListDetails(user, task.ID, &kind)

	suite.NoError(err)
	suite.Require().Len(details, 1)
	suite.Equal(models.DetailKindComment, details[0].Kind)
}

func (suite *TaskDetailServiceTestSuite) TestUpdateDetail_Success() {
	user := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask("T", user.ID)
	detail, err := suite.service.AddDetail(user, task.ID, AddDetailInput{
		Kind:    models.DetailKindNote,
		Content: ptr("draft"),
	})
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateDetail(user, task.ID, detail.ID, UpdateDetailInput{
		Content: ptr("final"),
	})

	suite.NoError(err)
	suite.Equal("final", *updated.Content)
}

func (suite *TaskDetailServiceTestSuite) TestUpdateDetail_WrongTask() {
	user := suite.createTestUser("alice", models.RoleUser)
	taskA := suite.createTestTask("A", user.ID)
	taskB := suite.createTestTask("B", user.ID)
	detail, err := suite.service.AddDetail(user, taskA.ID, AddDetailInput{
		Kind:    models.DetailKindNote,
		Content: ptr("on A"),
	})
	suite.Require().NoError(err)

	_, err = suite.service.UpdateDetail(user, taskB.ID, detail.ID, UpdateDetailInput{
		Content: ptr("hijack"),
	})

	suite.ErrorIs(err, ErrDetailNotFound)
}

func (suite *TaskDetailServiceTestSuite) TestDeleteDetail_Success() {
	user := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask("T", user.ID)
	detail, err := suite.service.AddDetail(user, task.ID, AddDetailInput{
		Kind:    models.DetailKindComment,
		Content: ptr("gone soon"),
	})
	suite.Require().NoError(err)

	suite.NoError(suite.service.DeleteDetail(user, task.ID, detail.ID))

	details, err := suite.service.ListDetails(user, task.ID, nil)
	suite.NoError(err)
	suite.Empty(details)
}

func (suite *TaskDetailServiceTestSuite) TestToggleChecklistItem_StampsCompletion() {
	user := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask("T", user.ID)
	item := suite.addChecklistItem(user, task.ID, "step")

	toggled, err := suite.service.ToggleChecklistItem(user, task.ID, item.ID)

	suite.NoError(err)
	suite.Require().NotNil(toggled.IsCompleted)
	suite.True(*toggled.IsCompleted)
	suite.Require().NotNil(toggled.CompletedAt)
	suite.WithinDuration(fixedNow, *toggled.CompletedAt, time.Second)

	// Toggling back clears the completion time
	toggled, err = suite.service.ToggleChecklistItem(user, task.ID, item.ID)
	suite.NoError(err)
	suite.False(*toggled.IsCompleted)
	suite.Nil(toggled.CompletedAt)
}

func (suite *TaskDetailServiceTestSuite) TestToggleChecklistItem_NonChecklistDetail() {
	user := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask("T", user.ID)
	comment, err := suite.service.AddDetail(user, task.ID, AddDetailInput{
		Kind:    models.DetailKindComment,
		Content: ptr("not a checkbox"),
	})
	suite.Require().NoError(err)

	_, err = suite.service.ToggleChecklistItem(user, task.ID, comment.ID)

	suite.ErrorIs(err, ErrNotChecklistItem)
}

func (suite *TaskDetailServiceTestSuite) TestReorderChecklist_Success() {
	user := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask("T", user.ID)
	a := suite.addChecklistItem(user, task.ID, "a")
	b := suite.addChecklistItem(user, task.ID, "b")
	c := suite.addChecklistItem(user, task.ID, "c")

	items, err := suite.service.ReorderChecklist(user, task.ID, []uint64{c.ID, a.ID, b.ID})

	suite.NoError(err)
	suite.Require().Len(items, 3)
	suite.Equal(c.ID, items[0].ID)
	suite.Equal(a.ID, items[1].ID)
	suite.Equal(b.ID, items[2].ID)
}

func (suite *TaskDetailServiceTestSuite) TestReorderChecklist_MustCoverEveryItem() {
	user := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask("T", user.ID)
	a := suite.addChecklistItem(user, task.ID, "a")
	suite.addChecklistItem(user, task.ID, "b")

	_, err := suite.service.ReorderChecklist(user, task.ID, []uint64{a.ID})
	suite.ErrorIs(err, ErrIncompleteReordering)

	_, err = suite.service.ReorderChecklist(user, task.ID, []uint64{a.ID, a.ID})
	suite.ErrorIs(err, ErrIncompleteReordering)

	_, err = suite.service.ReorderChecklist(user, task.ID, []uint64{a.ID, 9999})
	suite.ErrorIs(err, ErrIncompleteReordering)
}

// TestTaskDetailServiceTestSuite runs the test suite
func TestTaskDetailServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskDetailServiceTestSuite))
}
