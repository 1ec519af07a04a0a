package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"crm-online/internal/database"
	"crm-online/internal/models"
	"crm-online/internal/rules"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// clock подменяется в тестах, в бою это обычные часы
var clock rules.Clock = time.Now

// projectOrdering — белый список сортировок списка проектов.
func projectOrdering(sort string) (column string, desc bool) {
	switch sort {
	case "name":
		return "name", false
	case "-name":
		return "name", true
	case "-start_date":
		return "start_date", true
	case "end_date":
		return "end_date", false
	case "-end_date":
		return "end_date", true
	case "price":
		return "price", false
	case "-price":
		return "price", true
	default:
		return "start_date", false
	}
}

// statusByKey переводит ключ из query-строки в статус проекта.
func statusByKey(key string) (models.ProjectStatus, bool) {
	switch key {
	case "not_started":
		return models.StatusNotStarted, true
	case "in_process":
		return models.StatusInProgress, true
	case "completed":
		return models.StatusCompleted, true
	default:
		return "", false
	}
}

//
// СПИСОК ПРОЕКТОВ
//

// Список проектов + фильтры по компании и статусу
func ListProjects(c *gin.Context) {
	companyIDStr := c.Query("company_id")
	statusKey := c.Query("status")
	sort := c.Query("sort")

	column, desc := projectOrdering(sort)
	order := column + " asc"
	if desc {
		order = column + " desc"
	}

	dbq := database.DB.Preload("Company").Preload("Customer").Order(order)

	if companyIDStr != "" {
		if cid, err := strconv.Atoi(companyIDStr); err == nil && cid > 0 {
			dbq = dbq.Where("company_id = ?", cid)
		}
	}

	if status, ok := statusByKey(statusKey); ok {
		dbq = dbq.Where("status = ?", status)
	}

	var projects []models.Project
	if err := dbq.Find(&projects).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка загрузки проектов")
		return
	}

	var companies []models.Company
	database.DB.Order("title asc").Find(&companies)

	render(c, http.StatusOK, "projects_list.html", gin.H{
		"projects":        projects,
		"companies":       companies,
		"CurrentOrder":    sort,
		"FilterCompanyID": companyIDStr,
		"FilterStatus":    statusKey,
		"IsStaff":         isStaff(c),
	})
}

func ShowProjectDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.String(http.StatusBadRequest, "Некорректный ID проекта")
		return
	}

	var project models.Project
	if err := database.DB.
		Preload("Company").
		Preload("Customer").
		First(&project, id).Error; err != nil {
		c.String(http.StatusNotFound, "Проект не найден")
		return
	}

	render(c, http.StatusOK, "project_detail.html", gin.H{
		"project": project,
		"IsStaff": isStaff(c),
	})
}

// Проекты одной компании, опционально суженные до одного статуса
// (?status=not_started|in_process|completed).
func ShowCompanyProjects(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID компании")
		return
	}

	var company models.Company
	if err := database.DB.First(&company, id).Error; err != nil {
		c.String(http.StatusNotFound, "Компания не найдена")
		return
	}

	statusKey := c.Query("status")

	dbq := database.DB.Where("company_id = ?", company.ID).Order("start_date asc")
	if status, ok := statusByKey(statusKey); ok {
		dbq = dbq.Where("status = ?", status)
	}

	var projects []models.Project
	if err := dbq.Find(&projects).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка загрузки проектов")
		return
	}

	render(c, http.StatusOK, "company_projects.html", gin.H{
		"company":      company,
		"projects":     projects,
		"FilterStatus": statusKey,
	})
}

//
// СОЗДАНИЕ ПРОЕКТА
//

func ShowNewProject(c *gin.Context) {
	render(c, http.StatusOK, "projects_new.html", gin.H{
		"companies": allCompanies(),
		"customers": allCustomers(),
		"error":     "",
	})
}

func CreateProject(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	companyIDStr := c.PostForm("company_id")
	customerIDStr := c.PostForm("customer_id")
	description := strings.TrimSpace(c.PostForm("description"))
	startDateStr := c.PostForm("start_date")
	endDateStr := c.PostForm("end_date")
	priceStr := c.PostForm("price")

	if name == "" {
		renderProjectError(c, "Укажите название проекта")
		return
	}

	cid, err := strconv.Atoi(companyIDStr)
	if err != nil || cid <= 0 {
		renderProjectError(c, "Выберите компанию")
		return
	}

	var company models.Company
	if err := database.DB.First(&company, cid).Error; err != nil {
		renderProjectError(c, "Компания не найдена")
		return
	}

	var customerID *uint
	if customerIDStr != "" {
		var customer models.Customer
		if err := database.DB.First(&customer, customerIDStr).Error; err != nil {
			renderProjectError(c, "Заказчик не найден")
			return
		}
		customerID = &customer.ID
	}

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		renderProjectError(c, "Неверная дата начала")
		return
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		renderProjectError(c, "Неверная дата окончания")
		return
	}

	price, err := strconv.Atoi(priceStr)
	if err != nil || price < 0 {
		renderProjectError(c, "Неверная стоимость")
		return
	}

	// обе проверки разом: пользователь видит полный список ошибок
	names, err := database.ProjectNames(0)
	if err != nil {
		renderProjectError(c, "Ошибка проверки названия")
		return
	}
	violations := rules.Collect(
		rules.UniqueTitle(name, names),
		rules.DateOrder(startDate, endDate),
	)
	if len(violations) > 0 {
		renderProjectError(c, violations.Error())
		return
	}

	project := models.Project{
		CompanyID:   company.ID,
		CustomerID:  customerID,
		Name:        name,
		Description: description,
		StartDate:   startDate,
		EndDate:     endDate,
		Price:       price,
		// статус только из дат, форма его не задаёт
		Status: rules.DeriveStatus(startDate, endDate, clock()),
	}

	if err := store().Create(&project); err != nil {
		renderProjectError(c, "Ошибка сохранения проекта")
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "project", project.ID, "create", "Создан проект: "+project.Name)
	}

	c.Redirect(http.StatusFound, "/projects")
}

//
// РЕДАКТИРОВАНИЕ ПРОЕКТА
//

func ShowEditProject(c *gin.Context) {
	id := c.Param("id")

	var project models.Project
	if err := database.DB.Preload("Company").Preload("Customer").First(&project, id).Error; err != nil {
		c.String(http.StatusNotFound, "Проект не найден")
		return
	}

	render(c, http.StatusOK, "projects_edit.html", gin.H{
		"project":   project,
		"companies": allCompanies(),
		"customers": allCustomers(),
		"error":     "",
	})
}

func UpdateProject(c *gin.Context) {
	id := c.Param("id")

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		c.String(http.StatusNotFound, "Проект не найден")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	companyIDStr := c.PostForm("company_id")
	customerIDStr := c.PostForm("customer_id")
	description := strings.TrimSpace(c.PostForm("description"))
	startDateStr := c.PostForm("start_date")
	endDateStr := c.PostForm("end_date")
	priceStr := c.PostForm("price")

	if name == "" {
		renderProjectEditError(c, project, "Укажите название проекта")
		return
	}

	var company models.Company
	if err := database.DB.First(&company, companyIDStr).Error; err != nil {
		renderProjectEditError(c, project, "Компания не найдена")
		return
	}

	var customerID *uint
	if customerIDStr != "" {
		var customer models.Customer
		if err := database.DB.First(&customer, customerIDStr).Error; err != nil {
			renderProjectEditError(c, project, "Заказчик не найден")
			return
		}
		customerID = &customer.ID
	}

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		renderProjectEditError(c, project, "Неверная дата начала")
		return
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		renderProjectEditError(c, project, "Неверная дата окончания")
		return
	}

	price, err := strconv.Atoi(priceStr)
	if err != nil || price < 0 {
		renderProjectEditError(c, project, "Неверная стоимость")
		return
	}

	names, err := database.ProjectNames(project.ID)
	if err != nil {
		renderProjectEditError(c, project, "Ошибка проверки названия")
		return
	}
	violations := rules.Collect(
		rules.UniqueTitle(name, names),
		rules.DateOrder(startDate, endDate),
	)
	if len(violations) > 0 {
		renderProjectEditError(c, project, violations.Error())
		return
	}

	project.Name = name
	project.CompanyID = company.ID
	project.CustomerID = customerID
	project.Description = description
	project.StartDate = startDate
	project.EndDate = endDate
	project.Price = price
	// статус пересчитывается на каждом сохранении: проект,
	// пересохранённый спустя годы, получает статус от текущих часов
	project.Status = rules.DeriveStatus(startDate, endDate, clock())

	if err := store().Save(&project); err != nil {
		renderProjectEditError(c, project, "Ошибка сохранения проекта")
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "project", project.ID, "update", "Проект обновлён: "+project.Name)
	}

	c.Redirect(http.StatusFound, "/projects")
}

//
// УДАЛЕНИЕ ПРОЕКТА
//

func DeleteProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		c.String(http.StatusNotFound, "Проект не найден")
		return
	}

	if err := store().Delete(&models.Project{}, project.ID); err != nil {
		c.String(http.StatusInternalServerError, "Ошибка удаления")
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "project", project.ID, "delete", "Удалён проект: "+project.Name)
	}

	c.Redirect(http.StatusFound, "/projects")
}

func allCompanies() []models.Company {
	var companies []models.Company
	database.DB.Order("title asc").Find(&companies)
	return companies
}

func allCustomers() []models.Customer {
	var customers []models.Customer
	database.DB.Preload("User").Order("name asc").Find(&customers)
	return customers
}

func renderProjectError(c *gin.Context, msg string) {
	render(c, http.StatusBadRequest, "projects_new.html", gin.H{
		"error":     msg,
		"companies": allCompanies(),
		"customers": allCustomers(),
	})
}

func renderProjectEditError(c *gin.Context, project models.Project, msg string) {
	render(c, http.StatusBadRequest, "projects_edit.html", gin.H{
		"error":     msg,
		"project":   project,
		"companies": allCompanies(),
		"customers": allCustomers(),
	})
}
