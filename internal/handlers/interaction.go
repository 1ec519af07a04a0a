package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"crm-online/internal/database"
	"crm-online/internal/models"
	"crm-online/internal/rules"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// channelByKey переводит ключ из query-строки в канал связи.
func channelByKey(key string) (models.Channel, bool) {
	switch key {
	case "phone":
		return models.ChannelPhoneCall, true
	case "email":
		return models.ChannelEmail, true
	case "messenger":
		return models.ChannelMessenger, true
	default:
		return "", false
	}
}

func validChannel(ch models.Channel) bool {
	switch ch {
	case models.ChannelPhoneCall, models.ChannelEmail, models.ChannelMessenger:
		return true
	}
	return false
}

func validReferenceKind(kind models.ReferenceKind) bool {
	switch kind {
	case models.ToCompany, models.ToCustomer, "":
		return true
	}
	return false
}

func validRating(r models.Rating) bool {
	switch r {
	case models.RatingOne, models.RatingTwo, models.RatingThree,
		models.RatingFour, models.RatingFive:
		return true
	}
	return false
}

//
// СПИСКИ
//

// Список взаимодействий + фильтры по проекту, компании и каналу
// (?channel=phone|email|messenger).
func ListInteractions(c *gin.Context) {
	projectIDStr := c.Query("project_id")
	companyIDStr := c.Query("company_id")
	channelKey := c.Query("channel")

	dbq := database.DB.
		Preload("Project").
		Preload("Company").
		Preload("Customer").
		Preload("User").
		Order("created_at desc")

	if projectIDStr != "" {
		if pid, err := strconv.Atoi(projectIDStr); err == nil && pid > 0 {
			dbq = dbq.Where("project_id = ?", pid)
		}
	}

	if companyIDStr != "" {
		if cid, err := strconv.Atoi(companyIDStr); err == nil && cid > 0 {
			dbq = dbq.Where("company_id = ?", cid)
		}
	}

	if channel, ok := channelByKey(channelKey); ok {
		dbq = dbq.Where("channel = ?", channel)
	}

	var interactions []models.Interaction
	if err := dbq.Find(&interactions).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка загрузки взаимодействий")
		return
	}

	render(c, http.StatusOK, "interactions_list.html", gin.H{
		"interactions":    interactions,
		"FilterProjectID": projectIDStr,
		"FilterCompanyID": companyIDStr,
		"FilterChannel":   channelKey,
		"IsStaff":         isStaff(c),
	})
}

func ShowInteractionDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.String(http.StatusBadRequest, "Некорректный ID взаимодействия")
		return
	}

	var interaction models.Interaction
	if err := database.DB.
		Preload("Project").
		Preload("Company").
		Preload("Customer").
		Preload("User").
		First(&interaction, id).Error; err != nil {
		c.String(http.StatusNotFound, "Взаимодействие не найдено")
		return
	}

	render(c, http.StatusOK, "interaction_detail.html", gin.H{
		"interaction": interaction,
		"IsStaff":     isStaff(c),
	})
}

//
// СОЗДАНИЕ
//

func ShowNewInteraction(c *gin.Context) {
	render(c, http.StatusOK, "interactions_new.html", gin.H{
		"projects":  allProjects(),
		"companies": allCompanies(),
		"customers": allCustomers(),
		"error":     "",
	})
}

func CreateInteraction(c *gin.Context) {
	interaction, msg := bindInteractionForm(c)
	if msg != "" {
		renderInteractionError(c, msg)
		return
	}

	sess := sessions.Default(c)
	uid, ok := sess.Get("user_id").(uint)
	if !ok || uid == 0 {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	interaction.UserID = uid

	// нормализация ссылок строго перед записью: вид связи решает,
	// останется компания или заказчик
	interaction = rules.NormalizeInteraction(interaction)

	if err := store().Create(&interaction); err != nil {
		renderInteractionError(c, "Ошибка сохранения взаимодействия")
		return
	}

	database.CreateAuditLog(uid, "interaction", interaction.ID, "create",
		"Зафиксирован контакт: "+string(interaction.Channel))

	c.Redirect(http.StatusFound, "/interactions")
}

//
// РЕДАКТИРОВАНИЕ
//

func ShowEditInteraction(c *gin.Context) {
	id := c.Param("id")

	var interaction models.Interaction
	if err := database.DB.First(&interaction, id).Error; err != nil {
		c.String(http.StatusNotFound, "Взаимодействие не найдено")
		return
	}

	render(c, http.StatusOK, "interactions_edit.html", gin.H{
		"interaction": interaction,
		"projects":    allProjects(),
		"companies":   allCompanies(),
		"customers":   allCustomers(),
		"error":       "",
	})
}

func UpdateInteraction(c *gin.Context) {
	id := c.Param("id")

	var existing models.Interaction
	if err := database.DB.First(&existing, id).Error; err != nil {
		c.String(http.StatusNotFound, "Взаимодействие не найдено")
		return
	}

	form, msg := bindInteractionForm(c)
	if msg != "" {
		render(c, http.StatusBadRequest, "interactions_edit.html", gin.H{
			"interaction": existing,
			"projects":    allProjects(),
			"companies":   allCompanies(),
			"customers":   allCustomers(),
			"error":       msg,
		})
		return
	}

	existing.Channel = form.Channel
	existing.ReferenceKind = form.ReferenceKind
	existing.ProjectID = form.ProjectID
	existing.CompanyID = form.CompanyID
	existing.CustomerID = form.CustomerID
	existing.Rating = form.Rating
	existing.Description = form.Description

	// нормализация выполняется на каждом сохранении, не только при создании
	existing = rules.NormalizeInteraction(existing)

	if err := store().Save(&existing); err != nil {
		render(c, http.StatusInternalServerError, "interactions_edit.html", gin.H{
			"interaction": existing,
			"projects":    allProjects(),
			"companies":   allCompanies(),
			"customers":   allCustomers(),
			"error":       "Ошибка сохранения взаимодействия",
		})
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "interaction", existing.ID, "update",
			"Изменён контакт: "+string(existing.Channel))
	}

	c.Redirect(http.StatusFound, "/interactions/"+id)
}

//
// УДАЛЕНИЕ
//

func DeleteInteraction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID")
		return
	}

	var interaction models.Interaction
	if err := database.DB.First(&interaction, id).Error; err != nil {
		c.String(http.StatusNotFound, "Взаимодействие не найдено")
		return
	}

	if err := store().Delete(&models.Interaction{}, interaction.ID); err != nil {
		c.String(http.StatusInternalServerError, "Ошибка удаления")
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "interaction", interaction.ID, "delete",
			"Удалён контакт: "+string(interaction.Channel))
	}

	c.Redirect(http.StatusFound, "/interactions")
}

// bindInteractionForm разбирает форму и проверяет значения перечислений.
// Возвращает сообщение об ошибке для пользователя, если форма некорректна.
func bindInteractionForm(c *gin.Context) (models.Interaction, string) {
	var in models.Interaction

	in.Channel = models.Channel(c.PostForm("channel"))
	if !validChannel(in.Channel) {
		return in, "Выберите канал связи"
	}

	in.ReferenceKind = models.ReferenceKind(c.PostForm("reference_kind"))
	if !validReferenceKind(in.ReferenceKind) {
		return in, "Неверный вид связи"
	}

	in.Rating = models.Rating(c.PostForm("rating"))
	if !validRating(in.Rating) {
		return in, "Выберите оценку"
	}

	in.Description = strings.TrimSpace(c.PostForm("description"))

	if s := c.PostForm("project_id"); s != "" {
		var project models.Project
		if err := database.DB.First(&project, s).Error; err != nil {
			return in, "Проект не найден"
		}
		in.ProjectID = &project.ID
	}

	if s := c.PostForm("company_id"); s != "" {
		var company models.Company
		if err := database.DB.First(&company, s).Error; err != nil {
			return in, "Компания не найдена"
		}
		in.CompanyID = &company.ID
	}

	if s := c.PostForm("customer_id"); s != "" {
		var customer models.Customer
		if err := database.DB.First(&customer, s).Error; err != nil {
			return in, "Заказчик не найден"
		}
		in.CustomerID = &customer.ID
	}

	return in, ""
}

func allProjects() []models.Project {
	var projects []models.Project
	database.DB.Order("name asc").Find(&projects)
	return projects
}

func renderInteractionError(c *gin.Context, msg string) {
	render(c, http.StatusBadRequest, "interactions_new.html", gin.H{
		"error":     msg,
		"projects":  allProjects(),
		"companies": allCompanies(),
		"customers": allCustomers(),
	})
}
