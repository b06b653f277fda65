package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/examgate-go-api/internal/models"
)

func setupReleaseDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.TestRelease{},
		&models.TestReleaseSite{},
		&models.Test{},
		&models.Student{},
	))

	return db
}

func seedRelease(t *testing.T, db *gorm.DB, professorID, institutionID uint, deleted bool, start time.Time) models.TestRelease {
	t.Helper()

	release := models.TestRelease{
		TestID:        1,
		StudentID:     1,
		ProfessorID:   professorID,
		InstitutionID: institutionID,
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		MaxAttempts:   1,
		Deleted:       deleted,
	}
	require.NoError(t, db.Create(&release).Error)

	return release
}

func TestReleaseRepositoryProfessorScoping(t *testing.T) {
	db := setupReleaseDB(t)
	repo := NewReleaseRepository(db)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mine := seedRelease(t, db, 50, 30, false, base)
	// Same institution, different professor: must stay invisible.
	seedRelease(t, db, 51, 30, false, base.Add(time.Hour))

	releases, err := repo.ListScoped(context.Background(), models.ProfessorScope(50, 30), false)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	require.Equal(t, mine.ID, releases[0].ID)
}

func TestReleaseRepositoryInstitutionScoping(t *testing.T) {
	db := setupReleaseDB(t)
	repo := NewReleaseRepository(db)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	seedRelease(t, db, 50, 30, false, base)
	seedRelease(t, db, 51, 30, false, base.Add(time.Hour))
	seedRelease(t, db, 52, 31, false, base.Add(2*time.Hour))
	seedRelease(t, db, 50, 30, true, base.Add(3*time.Hour))

	// The include-deleted flag is ignored below administrator scope.
	releases, err := repo.ListScoped(context.Background(), models.InstitutionScope(30), true)
	require.NoError(t, err)
	require.Len(t, releases, 2)
	for _, release := range releases {
		require.Equal(t, uint(30), release.InstitutionID)
		require.False(t, release.Deleted)
	}
}

func TestReleaseRepositoryGlobalScoping(t *testing.T) {
	db := setupReleaseDB(t)
	repo := NewReleaseRepository(db)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	seedRelease(t, db, 50, 30, false, base)
	seedRelease(t, db, 52, 31, false, base.Add(time.Hour))
	deleted := seedRelease(t, db, 50, 30, true, base.Add(2*time.Hour))

	visible, err := repo.ListScoped(context.Background(), models.GlobalScope(nil), false)
	require.NoError(t, err)
	require.Len(t, visible, 2)

	all, err := repo.ListScoped(context.Background(), models.GlobalScope(nil), true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, deleted.ID, all[2].ID, "ordered by start time")

	filter := uint(31)
	narrowed, err := repo.ListScoped(context.Background(), models.GlobalScope(&filter), true)
	require.NoError(t, err)
	require.Len(t, narrowed, 1)
	require.Equal(t, uint(31), narrowed[0].InstitutionID)
}

func TestReleaseRepositoryUnauthorizedScopeEmpty(t *testing.T) {
	db := setupReleaseDB(t)
	repo := NewReleaseRepository(db)

	seedRelease(t, db, 50, 30, false, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	releases, err := repo.ListScoped(context.Background(), models.UnauthorizedScope(), true)
	require.NoError(t, err)
	require.Empty(t, releases)
}

func TestReleaseRepositoryGetByIDFindsDeleted(t *testing.T) {
	db := setupReleaseDB(t)
	repo := NewReleaseRepository(db)
	sites := NewReleaseSiteRepository(db)

	release := seedRelease(t, db, 50, 30, true, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	site := models.TestReleaseSite{ReleaseID: release.ID, URL: "https://ref.test", Title: "Reference"}
	require.NoError(t, sites.Create(context.Background(), &site))

	found, err := repo.GetByID(context.Background(), release.ID)
	require.NoError(t, err)
	require.True(t, found.Deleted)
	require.Len(t, found.AllowedSites, 1)
	require.Equal(t, "https://ref.test", found.AllowedSites[0].URL)

	_, err = repo.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReleaseRepositorySetDeleted(t *testing.T) {
	db := setupReleaseDB(t)
	repo := NewReleaseRepository(db)

	release := seedRelease(t, db, 50, 30, false, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	require.NoError(t, repo.SetDeleted(context.Background(), release.ID, true))
	// Repeating the same transition is a no-op, not a missing row.
	require.NoError(t, repo.SetDeleted(context.Background(), release.ID, true))

	require.NoError(t, repo.SetDeleted(context.Background(), release.ID, false))

	found, err := repo.GetByID(context.Background(), release.ID)
	require.NoError(t, err)
	require.False(t, found.Deleted)

	err = repo.SetDeleted(context.Background(), 999, true)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReleaseSiteRepositoryLifecycle(t *testing.T) {
	db := setupReleaseDB(t)
	repo := NewReleaseSiteRepository(db)

	release := seedRelease(t, db, 50, 30, false, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	first := models.TestReleaseSite{ReleaseID: release.ID, URL: "https://one.test", Title: "One"}
	second := models.TestReleaseSite{ReleaseID: release.ID, URL: "https://two.test", Title: "Two"}
	require.NoError(t, repo.Create(context.Background(), &first))
	require.NoError(t, repo.Create(context.Background(), &second))

	sites, err := repo.ListByRelease(context.Background(), release.ID)
	require.NoError(t, err)
	require.Len(t, sites, 2)

	got, err := repo.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	require.Equal(t, release.ID, got.ReleaseID)
	require.Equal(t, "https://one.test", got.URL)

	_, err = repo.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(context.Background(), first.ID))

	sites, err = repo.ListByRelease(context.Background(), release.ID)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	require.Equal(t, second.ID, sites[0].ID)

	err = repo.Delete(context.Background(), first.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
