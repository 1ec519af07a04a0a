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

// helper: кто может вести компании (admin + manager)
func isStaff(c *gin.Context) bool {
	sess := sessions.Default(c)
	roleStr, _ := sess.Get("role").(string)
	role := models.UserRole(roleStr)
	return role == models.RoleAdmin || role == models.RoleManager
}

// companyOrdering — белый список сортировок списка компаний,
// всё остальное из ?sort= сводится к сортировке по названию.
func companyOrdering(sort string) (column string, desc bool) {
	switch sort {
	case "-title":
		return "title", true
	case "created_at":
		return "created_at", false
	case "-created_at":
		return "created_at", true
	default:
		return "title", false
	}
}

//
// СПИСОК / ДЕТАЛИ
//

func ListCompanies(c *gin.Context) {
	sort := c.Query("sort")
	column, desc := companyOrdering(sort)

	var companies []models.Company
	if err := store().Ordered(&companies, column, desc); err != nil {
		c.String(http.StatusInternalServerError, "Ошибка загрузки компаний")
		return
	}

	render(c, http.StatusOK, "companies_list.html", gin.H{
		"companies":    companies,
		"CurrentOrder": sort,
		"IsStaff":      isStaff(c),
	})
}

func ShowCompanyDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.String(http.StatusBadRequest, "Некорректный ID компании")
		return
	}

	var company models.Company
	// Грузим компанию сразу с контактами и проектами
	if err := database.DB.
		Preload("Contacts").
		Preload("Projects").
		First(&company, id).Error; err != nil {
		c.String(http.StatusNotFound, "Компания не найдена")
		return
	}

	render(c, http.StatusOK, "company_detail.html", gin.H{
		"company": company,
		"IsStaff": isStaff(c),
	})
}

//
// СОЗДАНИЕ
//

func ShowNewCompany(c *gin.Context) {
	render(c, http.StatusOK, "companies_new.html", gin.H{"error": ""})
}

func CreateCompany(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	leaderName := strings.TrimSpace(c.PostForm("leader_name"))
	description := strings.TrimSpace(c.PostForm("description"))
	address := strings.TrimSpace(c.PostForm("address"))

	if title == "" {
		renderCompanyError(c, "Укажите название компании")
		return
	}

	// валидация до любой записи; ошибки собираются все сразу
	titles, err := database.CompanyTitles(0)
	if err != nil {
		renderCompanyError(c, "Ошибка проверки названия")
		return
	}
	if violations := rules.Collect(rules.UniqueTitle(title, titles)); len(violations) > 0 {
		renderCompanyError(c, violations.Error())
		return
	}

	company := models.Company{
		Title:       title,
		LeaderName:  leaderName,
		Description: description,
		Address:     address,
	}

	if err := store().Create(&company); err != nil {
		renderCompanyError(c, "Ошибка сохранения компании в БД")
		return
	}

	if err := saveCompanyContacts(company.ID, c); err != nil {
		renderCompanyError(c, "Ошибка сохранения контактов компании")
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "company", company.ID, "create", "Создана компания: "+company.Title)
	}

	c.Redirect(http.StatusFound, "/companies")
}

// контакты приходят повторяющимися полями формы, пустые строки пропускаем
func saveCompanyContacts(companyID uint, c *gin.Context) error {
	kinds := map[models.ContactKind][]string{
		models.ContactPhone:  c.PostFormArray("phone"),
		models.ContactEmail:  c.PostFormArray("email"),
		models.ContactPerson: c.PostFormArray("person"),
	}

	for kind, values := range kinds {
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			contact := models.Contact{
				CompanyID: companyID,
				Kind:      kind,
				Value:     v,
			}
			if err := database.DB.Create(&contact).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// при редактировании контакты заменяются целиком строками из формы
func replaceCompanyContacts(companyID uint, c *gin.Context) error {
	if err := database.DB.
		Where("company_id = ?", companyID).
		Delete(&models.Contact{}).Error; err != nil {
		return err
	}
	return saveCompanyContacts(companyID, c)
}

//
// РЕДАКТИРОВАНИЕ
//

func ShowEditCompany(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID компании")
		return
	}

	var company models.Company
	if err := database.DB.Preload("Contacts").First(&company, id).Error; err != nil {
		c.String(http.StatusNotFound, "Компания не найдена")
		return
	}

	render(c, http.StatusOK, "companies_edit.html", gin.H{
		"company": company,
		"error":   "",
	})
}

func UpdateCompany(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID компании")
		return
	}

	var company models.Company
	if err := database.DB.First(&company, id).Error; err != nil {
		c.String(http.StatusNotFound, "Компания не найдена")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	leaderName := strings.TrimSpace(c.PostForm("leader_name"))
	description := strings.TrimSpace(c.PostForm("description"))
	address := strings.TrimSpace(c.PostForm("address"))

	if title == "" {
		render(c, http.StatusBadRequest, "companies_edit.html", gin.H{
			"company": company,
			"error":   "Укажите название компании",
		})
		return
	}

	// уникальность без учёта регистра, сама запись исключается
	titles, err := database.CompanyTitles(company.ID)
	if err != nil {
		render(c, http.StatusInternalServerError, "companies_edit.html", gin.H{
			"company": company,
			"error":   "Ошибка проверки названия",
		})
		return
	}
	if violations := rules.Collect(rules.UniqueTitle(title, titles)); len(violations) > 0 {
		render(c, http.StatusBadRequest, "companies_edit.html", gin.H{
			"company": company,
			"error":   violations.Error(),
		})
		return
	}

	company.Title = title
	company.LeaderName = leaderName
	company.Description = description
	company.Address = address

	if err := store().Save(&company); err != nil {
		render(c, http.StatusInternalServerError, "companies_edit.html", gin.H{
			"company": company,
			"error":   "Ошибка сохранения компании",
		})
		return
	}

	if err := replaceCompanyContacts(company.ID, c); err != nil {
		render(c, http.StatusInternalServerError, "companies_edit.html", gin.H{
			"company": company,
			"error":   "Ошибка сохранения контактов компании",
		})
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "company", company.ID, "update", "Изменена компания: "+company.Title)
	}

	c.Redirect(http.StatusFound, "/companies/"+idStr)
}

//
// УДАЛЕНИЕ
//

func DeleteCompany(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID")
		return
	}

	var company models.Company
	if err := database.DB.First(&company, id).Error; err != nil {
		c.String(http.StatusNotFound, "Компания не найдена")
		return
	}

	if err := store().Delete(&models.Company{}, company.ID); err != nil {
		c.String(http.StatusInternalServerError, "Ошибка удаления")
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "company", company.ID, "delete", "Удалена компания: "+company.Title)
	}

	c.Redirect(http.StatusFound, "/companies")
}

func renderCompanyError(c *gin.Context, msg string) {
	render(c, http.StatusBadRequest, "companies_new.html", gin.H{
		"error": msg,
	})
}
