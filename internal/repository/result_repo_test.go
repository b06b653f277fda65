package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/examgate-go-api/internal/models"
)

func TestResultRepositoryScoping(t *testing.T) {
	db := setupReleaseDB(t)
	require.NoError(t, db.AutoMigrate(&models.TestResult{}))
	repo := NewResultRepository(db)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mine := seedRelease(t, db, 50, 30, false, base)
	other := seedRelease(t, db, 52, 31, false, base.Add(time.Hour))

	require.NoError(t, db.Create(&models.TestResult{TestReleaseID: mine.ID, StudentID: 1, Score: 9.5, CompletedAt: base.Add(90 * time.Minute)}).Error)
	require.NoError(t, db.Create(&models.TestResult{TestReleaseID: other.ID, StudentID: 2, Score: 7.0, CompletedAt: base.Add(2 * time.Hour)}).Error)

	all, err := repo.ListScoped(context.Background(), models.GlobalScope(nil))
	require.NoError(t, err)
	require.Len(t, all, 2)

	professorResults, err := repo.ListScoped(context.Background(), models.ProfessorScope(50, 30))
	require.NoError(t, err)
	require.Len(t, professorResults, 1)
	require.Equal(t, mine.ID, professorResults[0].TestReleaseID)

	institutionResults, err := repo.ListScoped(context.Background(), models.InstitutionScope(31))
	require.NoError(t, err)
	require.Len(t, institutionResults, 1)
	require.Equal(t, other.ID, institutionResults[0].TestReleaseID)

	none, err := repo.ListScoped(context.Background(), models.UnauthorizedScope())
	require.NoError(t, err)
	require.Empty(t, none)
}
