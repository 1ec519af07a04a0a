package database

import (
	"testing"
	"time"

	"crm-online/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB поднимает sqlite в памяти и подменяет глобальный DB,
// чтобы хелперы пакета работали против тестовой базы.
func setupTestDB(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Contact{},
		&models.Customer{},
		&models.ManagerCRM{},
		&models.Project{},
		&models.Interaction{},
		&models.AuditLog{},
	)
	require.NoError(t, err, "failed to migrate test database")

	DB = db
	return NewStore(db)
}

func TestStoreCreateAndGetByID(t *testing.T) {
	store := setupTestDB(t)

	company := models.Company{Title: "Рога и Копыта", LeaderName: "Бендер О.И."}
	require.NoError(t, store.Create(&company))

	var got models.Company
	require.NoError(t, store.GetByID(&got, company.ID))
	assert.Equal(t, "Рога и Копыта", got.Title)
}

func TestStoreGetByIDNotFound(t *testing.T) {
	store := setupTestDB(t)

	var got models.Company
	err := store.GetByID(&got, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreFilter(t *testing.T) {
	store := setupTestDB(t)

	acme := models.Company{Title: "Acme"}
	globex := models.Company{Title: "Globex"}
	require.NoError(t, store.Create(&acme))
	require.NoError(t, store.Create(&globex))

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	require.NoError(t, store.Create(&models.Project{
		CompanyID: acme.ID, Name: "Портал", StartDate: start, EndDate: end,
		Status: models.StatusInProgress,
	}))
	require.NoError(t, store.Create(&models.Project{
		CompanyID: globex.ID, Name: "Склад", StartDate: start, EndDate: end,
		Status: models.StatusInProgress,
	}))

	var projects []models.Project
	require.NoError(t, store.Filter(&projects, "company_id", acme.ID))
	require.Len(t, projects, 1)
	assert.Equal(t, "Портал", projects[0].Name)
}

func TestStoreOrdered(t *testing.T) {
	store := setupTestDB(t)

	for _, title := range []string{"Globex", "Acme", "Initech"} {
		require.NoError(t, store.Create(&models.Company{Title: title}))
	}

	var asc []models.Company
	require.NoError(t, store.Ordered(&asc, "title", false))
	require.Len(t, asc, 3)
	assert.Equal(t, "Acme", asc[0].Title)
	assert.Equal(t, "Initech", asc[2].Title)

	var desc []models.Company
	require.NoError(t, store.Ordered(&desc, "title", true))
	assert.Equal(t, "Initech", desc[0].Title)
}

func TestStoreSaveAndDelete(t *testing.T) {
	store := setupTestDB(t)

	company := models.Company{Title: "Acme"}
	require.NoError(t, store.Create(&company))

	company.LeaderName = "Новый директор"
	require.NoError(t, store.Save(&company))

	var got models.Company
	require.NoError(t, store.GetByID(&got, company.ID))
	assert.Equal(t, "Новый директор", got.LeaderName)

	require.NoError(t, store.Delete(&models.Company{}, company.ID))
	assert.ErrorIs(t, store.GetByID(&got, company.ID), ErrNotFound)
}

func TestCompanyTitlesExcludesSelf(t *testing.T) {
	store := setupTestDB(t)

	acme := models.Company{Title: "Acme"}
	globex := models.Company{Title: "Globex"}
	require.NoError(t, store.Create(&acme))
	require.NoError(t, store.Create(&globex))

	titles, err := CompanyTitles(acme.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Globex"}, titles)

	// при создании исключать нечего — ноль не совпадает ни с одним ID
	titles, err = CompanyTitles(0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Acme", "Globex"}, titles)
}

// Уникальный индекс в БД остаётся последней линией защиты от гонки
// двух одновременных записей: валидатор — только быстрая проверка.
func TestUniqueIndexIsAuthority(t *testing.T) {
	store := setupTestDB(t)

	require.NoError(t, store.Create(&models.Company{Title: "Acme"}))
	err := store.Create(&models.Company{Title: "Acme"})
	assert.Error(t, err, "duplicate title must be rejected by the index")
}

func TestCreateAuditLog(t *testing.T) {
	setupTestDB(t)

	CreateAuditLog(1, "company", 7, "create", "Создана компания: Acme")

	var logs []models.AuditLog
	require.NoError(t, DB.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "company", logs[0].Entity)
	assert.Equal(t, uint(7), logs[0].EntityID)
	assert.Equal(t, "create", logs[0].Action)
}
