package report_test

import (
	"context"
	"testing"

	"report-manager/core/database"
	"report-manager/core/faults"
	"report-manager/feature/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&report.Report{}))
	return db
}

func TestCreateAndGet(t *testing.T) {
	svc := report.NewService(setupDB(t), zap.NewNop())
	ctx := context.Background()

	rep, err := svc.Create(ctx, "stock", "Daily stock count")
	require.NoError(t, err)
	assert.Equal(t, report.StatusDraft, rep.Status)
	assert.Nil(t, rep.SubmittedAt)

	got, err := svc.Get(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)

	_, err = svc.Get(ctx, 9999)
	assert.True(t, faults.IsKind(err, faults.KindNotFound))
}

func TestCreateValidation(t *testing.T) {
	svc := report.NewService(setupDB(t), zap.NewNop())

	_, err := svc.Create(context.Background(), "", "no type")
	assert.True(t, faults.IsKind(err, faults.KindValidation))
}

func TestTransition(t *testing.T) {
	svc := report.NewService(setupDB(t), zap.NewNop())
	ctx := context.Background()

	rep, err := svc.Create(ctx, "stock", "Daily stock count")
	require.NoError(t, err)

	submitted, err := svc.Transition(ctx, rep.ID, report.StatusDraft, report.StatusSubmitted)
	require.NoError(t, err)
	assert.Equal(t, report.StatusSubmitted, submitted.Status)
	assert.NotNil(t, submitted.SubmittedAt)

	// A second draft->submitted transition must fail; the report moved on.
	_, err = svc.Transition(ctx, rep.ID, report.StatusDraft, report.StatusSubmitted)
	assert.True(t, faults.IsKind(err, faults.KindPrecondition))

	resolved, err := svc.Transition(ctx, rep.ID, report.StatusSubmitted, report.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, report.StatusResolved, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)
}
