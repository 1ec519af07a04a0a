package handlers

import (
	"net/http"
	"strconv"

	"crm-online/internal/database"
	"crm-online/internal/models"
	"crm-online/internal/rules"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// profileOrdering — белый список сортировок списков профилей.
func profileOrdering(sort string) (column string, desc bool) {
	switch sort {
	case "name":
		return "name", false
	case "-name":
		return "name", true
	default:
		return "user_id", false
	}
}

func validGender(g models.Gender) bool {
	switch g {
	case models.GenderMale, models.GenderFemale, "":
		return true
	}
	return false
}

// helper: владелец профиля или админ
func ownsProfile(c *gin.Context, userID uint) bool {
	sess := sessions.Default(c)
	roleStr, _ := sess.Get("role").(string)
	if models.UserRole(roleStr) == models.RoleAdmin {
		return true
	}
	uid, ok := sess.Get("user_id").(uint)
	return ok && uid == userID
}

//
// ЗАКАЗЧИКИ
//

func ListCustomers(c *gin.Context) {
	sort := c.Query("sort")
	column, desc := profileOrdering(sort)

	order := column + " asc"
	if desc {
		order = column + " desc"
	}

	var customers []models.Customer
	if err := database.DB.Preload("User").Order(order).Find(&customers).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка загрузки заказчиков")
		return
	}

	render(c, http.StatusOK, "customers_list.html", gin.H{
		"customers":    customers,
		"CurrentOrder": sort,
	})
}

func ShowCustomerDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.String(http.StatusBadRequest, "Некорректный ID заказчика")
		return
	}

	var customer models.Customer
	if err := database.DB.Preload("User").First(&customer, id).Error; err != nil {
		c.String(http.StatusNotFound, "Заказчик не найден")
		return
	}

	render(c, http.StatusOK, "customer_detail.html", gin.H{
		"customer": customer,
		"CanEdit":  ownsProfile(c, customer.UserID),
	})
}

func ShowEditCustomer(c *gin.Context) {
	id := c.Param("id")

	var customer models.Customer
	if err := database.DB.Preload("User").First(&customer, id).Error; err != nil {
		c.String(http.StatusNotFound, "Заказчик не найден")
		return
	}

	if !ownsProfile(c, customer.UserID) {
		c.String(http.StatusForbidden, "Недостаточно прав")
		return
	}

	render(c, http.StatusOK, "customer_edit.html", gin.H{
		"customer": customer,
		"error":    "",
	})
}

// UpdateCustomer сохраняет профиль заказчика. Имя обязано точно
// совпадать с "Имя Фамилия" учётной записи — так профиль подтверждает
// смену имени в аккаунте.
func UpdateCustomer(c *gin.Context) {
	idStr := c.Param("id")

	var customer models.Customer
	if err := database.DB.Preload("User").First(&customer, idStr).Error; err != nil {
		c.String(http.StatusNotFound, "Заказчик не найден")
		return
	}

	if !ownsProfile(c, customer.UserID) {
		c.String(http.StatusForbidden, "Недостаточно прав")
		return
	}

	name := c.PostForm("name") // без TrimSpace: совпадение должно быть точным
	gender := models.Gender(c.PostForm("gender"))

	if !validGender(gender) {
		render(c, http.StatusBadRequest, "customer_edit.html", gin.H{
			"customer": customer,
			"error":    "Неверный пол",
		})
		return
	}

	violations := rules.Collect(
		rules.NameMatchesAccount(name, customer.User.FirstName, customer.User.LastName),
	)
	if len(violations) > 0 {
		render(c, http.StatusBadRequest, "customer_edit.html", gin.H{
			"customer": customer,
			"error":    violations.Error(),
		})
		return
	}

	customer.Name = name
	customer.Gender = gender

	if err := store().Save(&customer); err != nil {
		render(c, http.StatusInternalServerError, "customer_edit.html", gin.H{
			"customer": customer,
			"error":    "Ошибка сохранения профиля",
		})
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "customer", customer.ID, "update", "Изменён профиль заказчика: "+customer.Name)
	}

	c.Redirect(http.StatusFound, "/customers/"+idStr)
}

//
// МЕНЕДЖЕРЫ
//

func ListManagers(c *gin.Context) {
	sort := c.Query("sort")
	column, desc := profileOrdering(sort)

	order := column + " asc"
	if desc {
		order = column + " desc"
	}

	var managers []models.ManagerCRM
	if err := database.DB.Preload("User").Order(order).Find(&managers).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка загрузки менеджеров")
		return
	}

	render(c, http.StatusOK, "managers_list.html", gin.H{
		"managers":     managers,
		"CurrentOrder": sort,
	})
}

func ShowManagerDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.String(http.StatusBadRequest, "Некорректный ID менеджера")
		return
	}

	var manager models.ManagerCRM
	if err := database.DB.Preload("User").First(&manager, id).Error; err != nil {
		c.String(http.StatusNotFound, "Менеджер не найден")
		return
	}

	render(c, http.StatusOK, "manager_detail.html", gin.H{
		"manager": manager,
		"CanEdit": ownsProfile(c, manager.UserID),
	})
}

func ShowEditManager(c *gin.Context) {
	id := c.Param("id")

	var manager models.ManagerCRM
	if err := database.DB.Preload("User").First(&manager, id).Error; err != nil {
		c.String(http.StatusNotFound, "Менеджер не найден")
		return
	}

	if !ownsProfile(c, manager.UserID) {
		c.String(http.StatusForbidden, "Недостаточно прав")
		return
	}

	render(c, http.StatusOK, "manager_edit.html", gin.H{
		"manager": manager,
		"error":   "",
	})
}

// UpdateManager — то же правило совпадения имён, что и у заказчика.
func UpdateManager(c *gin.Context) {
	idStr := c.Param("id")

	var manager models.ManagerCRM
	if err := database.DB.Preload("User").First(&manager, idStr).Error; err != nil {
		c.String(http.StatusNotFound, "Менеджер не найден")
		return
	}

	if !ownsProfile(c, manager.UserID) {
		c.String(http.StatusForbidden, "Недостаточно прав")
		return
	}

	name := c.PostForm("name")
	gender := models.Gender(c.PostForm("gender"))

	if !validGender(gender) {
		render(c, http.StatusBadRequest, "manager_edit.html", gin.H{
			"manager": manager,
			"error":   "Неверный пол",
		})
		return
	}

	violations := rules.Collect(
		rules.NameMatchesAccount(name, manager.User.FirstName, manager.User.LastName),
	)
	if len(violations) > 0 {
		render(c, http.StatusBadRequest, "manager_edit.html", gin.H{
			"manager": manager,
			"error":   violations.Error(),
		})
		return
	}

	manager.Name = name
	manager.Gender = gender

	if err := store().Save(&manager); err != nil {
		render(c, http.StatusInternalServerError, "manager_edit.html", gin.H{
			"manager": manager,
			"error":   "Ошибка сохранения профиля",
		})
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "manager", manager.ID, "update", "Изменён профиль менеджера: "+manager.Name)
	}

	c.Redirect(http.StatusFound, "/managers/"+idStr)
}
