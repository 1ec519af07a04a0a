package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"crm-online/internal/database"
	"crm-online/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUpdateAccountPersistsChanges(t *testing.T) {
	r := setupHandlerTest(t)

	user := models.User{
		Username:     "manager1",
		PasswordHash: "x",
		Role:         models.RoleManager,
		FirstName:    "Иван",
		LastName:     "Петров",
	}
	require.NoError(t, database.DB.Create(&user).Error)

	cookies := sessionCookies(t, r, user.ID, user.Role)
	r.POST("/account/edit", UpdateAccount)

	form := url.Values{
		"first_name": {"Пётр"},
		"last_name":  {"Иванов"},
		"email":      {"petr@example.com"},
		"phone":      {"+380671234567"},
	}
	w := postForm(r, "/account/edit", form, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	var got models.User
	require.NoError(t, database.DB.First(&got, user.ID).Error)
	assert.Equal(t, "Пётр", got.FirstName)
	assert.Equal(t, "Иванов", got.LastName)
	assert.Equal(t, "petr@example.com", got.Email)
}

func TestUpdatePassword(t *testing.T) {
	r := setupHandlerTest(t)

	// MinCost, чтобы не тормозить тест
	hash, err := bcrypt.GenerateFromPassword([]byte("OldPass123!"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     "customer1",
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
		FirstName:    "Анна",
		LastName:     "Смирнова",
	}
	require.NoError(t, database.DB.Create(&user).Error)

	cookies := sessionCookies(t, r, user.ID, user.Role)
	r.POST("/account/password", UpdatePassword)

	form := url.Values{
		"old_password": {"OldPass123!"},
		"new_password": {"NewPass456!"},
	}
	w := postForm(r, "/account/password", form, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	var got models.User
	require.NoError(t, database.DB.First(&got, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("NewPass456!")),
		"new password must be accepted after the change")
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("OldPass123!")),
		"old password must stop working")
}
