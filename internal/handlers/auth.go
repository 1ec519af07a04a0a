package handlers

import (
	"net/http"
	"strings"

	"crm-online/internal/database"
	"crm-online/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"error": ""})
}

type registerForm struct {
	Username  string `form:"username"`
	Password  string `form:"password"`
	Role      string `form:"role"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Email     string `form:"email"`
	Phone     string `form:"phone"`
}

func Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "register.html", gin.H{"error": "Некорректные данные"})
		return
	}

	form.Username = strings.TrimSpace(form.Username)
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)

	if len(form.Username) < 3 || len(form.Password) < 6 {
		render(c, http.StatusBadRequest, "register.html", gin.H{"error": "Слишком короткий логин или пароль"})
		return
	}
	if form.FirstName == "" || form.LastName == "" {
		render(c, http.StatusBadRequest, "register.html", gin.H{"error": "Укажите имя и фамилию"})
		return
	}

	role := models.UserRole(form.Role)

	// через форму можно регистрировать только менеджера или заказчика
	switch role {
	case models.RoleManager, models.RoleCustomer:
		// ок
	default:
		render(c, http.StatusBadRequest, "register.html", gin.H{"error": "Неверная роль"})
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", form.Username).First(&existing).Error; err == nil {
		render(c, http.StatusBadRequest, "register.html", gin.H{"error": "Пользователь уже существует"})
		return
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	user := models.User{
		Username:     form.Username,
		PasswordHash: string(hash),
		Role:         role,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        strings.TrimSpace(form.Email),
		Phone:        strings.TrimSpace(form.Phone),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		render(c, http.StatusInternalServerError, "register.html", gin.H{"error": "Ошибка сохранения пользователя"})
		return
	}

	// профиль создаётся сразу с именем учётной записи,
	// дальше валидатор следит, чтобы они не разошлись
	switch role {
	case models.RoleManager:
		_ = database.DB.Create(&models.ManagerCRM{UserID: user.ID, Name: user.FullName()}).Error
	case models.RoleCustomer:
		_ = database.DB.Create(&models.Customer{UserID: user.ID, Name: user.FullName()}).Error
	}

	c.Redirect(http.StatusFound, "/login")
}

func ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"error": ""})
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Некорректные данные"})
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", form.Username).First(&user).Error; err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Неверный логин или пароль"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Неверный логин или пароль"})
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
	_ = sess.Save()

	c.Redirect(http.StatusFound, "/companies")
}

func Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/login")
}

//
// ЛИЧНЫЙ КАБИНЕТ
//

func ShowEditAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	render(c, http.StatusOK, "account_edit.html", gin.H{
		"user":  user,
		"error": "",
	})
}

// UpdateAccount меняет данные собственной учётной записи. После смены
// имени или фамилии профиль заказчика/менеджера перестанет проходить
// проверку совпадения имён, пока пользователь не подтвердит новое имя.
func UpdateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	firstName := strings.TrimSpace(c.PostForm("first_name"))
	lastName := strings.TrimSpace(c.PostForm("last_name"))
	email := strings.TrimSpace(c.PostForm("email"))
	phone := strings.TrimSpace(c.PostForm("phone"))

	if firstName == "" || lastName == "" {
		render(c, http.StatusBadRequest, "account_edit.html", gin.H{
			"user":  user,
			"error": "Укажите имя и фамилию",
		})
		return
	}

	user.FirstName = firstName
	user.LastName = lastName
	user.Email = email
	user.Phone = phone

	if err := store().Save(&user); err != nil {
		render(c, http.StatusInternalServerError, "account_edit.html", gin.H{
			"user":  user,
			"error": "Ошибка сохранения",
		})
		return
	}

	c.Redirect(http.StatusFound, "/account/edit")
}

// UpdatePassword меняет пароль учётной записи после проверки текущего.
func UpdatePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	oldPassword := c.PostForm("old_password")
	newPassword := c.PostForm("new_password")

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		render(c, http.StatusBadRequest, "account_edit.html", gin.H{
			"user":  user,
			"error": "Неверный текущий пароль",
		})
		return
	}

	if len(newPassword) < 6 {
		render(c, http.StatusBadRequest, "account_edit.html", gin.H{
			"user":  user,
			"error": "Слишком короткий пароль",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		render(c, http.StatusInternalServerError, "account_edit.html", gin.H{
			"user":  user,
			"error": "Ошибка смены пароля",
		})
		return
	}
	user.PasswordHash = string(hash)

	if err := store().Save(&user); err != nil {
		render(c, http.StatusInternalServerError, "account_edit.html", gin.H{
			"user":  user,
			"error": "Ошибка смены пароля",
		})
		return
	}

	c.Redirect(http.StatusFound, "/account/edit")
}

// currentUser достаёт учётную запись текущей сессии из БД.
func currentUser(c *gin.Context) (models.User, bool) {
	sess := sessions.Default(c)
	uid, ok := sess.Get("user_id").(uint)
	if !ok || uid == 0 {
		return models.User{}, false
	}

	var user models.User
	if err := database.DB.First(&user, uid).Error; err != nil {
		return models.User{}, false
	}
	return user, true
}
