package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newComplianceTestEnv(t *testing.T) (ComplianceService, *gorm.DB, model.User) {
	t.Helper()
	db := newTestDB(t)
	user := seedUser(t, db, model.RoleTaxpayer)

	txManager := repository.NewTransactionManager(db)
	svc := NewComplianceService(
		repository.NewComplianceRepository(db),
		repository.NewBusinessRepository(db),
		repository.NewAuditRepository(db),
		txManager,
	)
	return svc, db, user
}

func dueIn(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestCreateComplianceTask(t *testing.T) {
	svc, db, user := newComplianceTestEnv(t)
	ctx := context.Background()

	biz := seedBusiness(t, db, user.ID)

	task, err := svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:       model.ComplianceVATReturn,
		Title:      "Q1 VAT filing",
		DueDate:    dueIn(14),
		BusinessID: biz.ID.String(),
		Notes:      "collect invoices first",
	})
	require.NoError(t, err)

	assert.Equal(t, model.ComplianceStatusPending, task.Status)
	assert.Equal(t, model.ComplianceVATReturn, task.Type)
	require.NotNil(t, task.BusinessID)
	assert.Equal(t, biz.ID.String(), *task.BusinessID)
	assert.Nil(t, task.CompletedDate)
}

func TestCreateComplianceTaskRejectsBadInput(t *testing.T) {
	svc, _, user := newComplianceTestEnv(t)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:    model.ComplianceAudit,
		Title:   "Statutory audit",
		DueDate: "31-12-2026",
	})
	require.Error(t, err)

	_, err = svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:       model.ComplianceAudit,
		Title:      "Statutory audit",
		DueDate:    dueIn(30),
		BusinessID: "00000000-0000-0000-0000-000000000001",
	})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListTasksMarksOverdue(t *testing.T) {
	svc, _, user := newComplianceTestEnv(t)
	ctx := context.Background()

	late, err := svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:    model.ComplianceTaxFiling,
		Title:   "Annual PIT filing",
		DueDate: dueIn(-3),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ComplianceStatusPending, late.Status)

	onTime, err := svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:    model.ComplianceLicenseRenewal,
		Title:   "Trade license renewal",
		DueDate: dueIn(20),
	})
	require.NoError(t, err)

	done, err := svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:    model.ComplianceRegistration,
		Title:   "TIN registration",
		DueDate: dueIn(-10),
	})
	require.NoError(t, err)
	_, err = svc.CompleteTask(ctx, user.ID.String(), done.ID)
	require.NoError(t, err)

	// Listing flips the unfinished past-due task, leaves the rest alone
	list, err := svc.ListTasks(ctx, user.ID.String(), "")
	require.NoError(t, err)
	require.Len(t, list, 3)

	byID := make(map[string]ComplianceTaskResponse, len(list))
	for _, task := range list {
		byID[task.ID] = task
	}
	assert.Equal(t, model.ComplianceStatusOverdue, byID[late.ID].Status)
	assert.Equal(t, model.ComplianceStatusPending, byID[onTime.ID].Status)
	assert.Equal(t, model.ComplianceStatusCompleted, byID[done.ID].Status)

	// The transition is persisted, not recomputed per request
	fetched, err := svc.GetTask(ctx, user.ID.String(), late.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ComplianceStatusOverdue, fetched.Status)
}

func TestListUpcomingWindow(t *testing.T) {
	svc, _, user := newComplianceTestEnv(t)
	ctx := context.Background()

	soon, err := svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:    model.ComplianceVATReturn,
		Title:   "Q2 VAT filing",
		DueDate: dueIn(10),
	})
	require.NoError(t, err)

	_, err = svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:    model.ComplianceAnnualReturn,
		Title:   "CAC annual return",
		DueDate: dueIn(60),
	})
	require.NoError(t, err)

	finished, err := svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:    model.ComplianceOther,
		Title:   "Levy remittance",
		DueDate: dueIn(5),
	})
	require.NoError(t, err)
	_, err = svc.CompleteTask(ctx, user.ID.String(), finished.ID)
	require.NoError(t, err)

	upcoming, err := svc.ListUpcoming(ctx, user.ID.String(), 30)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, soon.ID, upcoming[0].ID)
}

func TestListOverdueExcludesCompleted(t *testing.T) {
	svc, _, user := newComplianceTestEnv(t)
	ctx := context.Background()

	missed, err := svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:    model.ComplianceTaxFiling,
		Title:   "Prior-year filing",
		DueDate: dueIn(-30),
	})
	require.NoError(t, err)

	settled, err := svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:    model.ComplianceVATReturn,
		Title:   "Late VAT filing",
		DueDate: dueIn(-15),
	})
	require.NoError(t, err)
	_, err = svc.CompleteTask(ctx, user.ID.String(), settled.ID)
	require.NoError(t, err)

	overdue, err := svc.ListOverdue(ctx, user.ID.String())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, missed.ID, overdue[0].ID)
}

func TestCompleteTaskStampsDate(t *testing.T) {
	svc, _, user := newComplianceTestEnv(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:    model.ComplianceAudit,
		Title:   "Statutory audit",
		DueDate: dueIn(7),
	})
	require.NoError(t, err)

	completed, err := svc.CompleteTask(ctx, user.ID.String(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ComplianceStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedDate)
	assert.Equal(t, time.Now().Format("2006-01-02"), *completed.CompletedDate)
}

func TestComplianceTasksAreOwnerScoped(t *testing.T) {
	svc, db, user := newComplianceTestEnv(t)
	ctx := context.Background()

	stranger := seedUser(t, db, model.RoleTaxpayer)

	task, err := svc.CreateTask(ctx, user.ID.String(), CreateComplianceTaskRequest{
		Type:    model.ComplianceOther,
		Title:   "Levy remittance",
		DueDate: dueIn(7),
	})
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, stranger.ID.String(), task.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	err = svc.DeleteTask(ctx, stranger.ID.String(), task.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.NoError(t, svc.DeleteTask(ctx, user.ID.String(), task.ID))
	list, err := svc.ListTasks(ctx, user.ID.String(), "")
	require.NoError(t, err)
	assert.Empty(t, list)
}
