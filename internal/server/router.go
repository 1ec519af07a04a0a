package server

import (
	"html/template"
	"net/http"

	"crm-online/internal/config"
	"crm-online/internal/handlers"
	"crm-online/internal/middleware"
	"crm-online/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func maskEmail(email string) string {
	runes := []rune(email)
	atIdx := -1
	for i, r := range runes {
		if r == '@' {
			atIdx = i
			break
		}
	}
	if atIdx <= 0 {
		return "***"
	}
	prefix := string(runes[:atIdx])
	domain := string(runes[atIdx:])
	if len(prefix) <= 2 {
		return prefix + "***" + domain
	}
	return string(runes[0:2]) + "***" + domain
}

func maskPhone(phone string) string {
	runes := []rune(phone)
	n := len(runes)
	if n <= 4 {
		return "***"
	}
	masked := make([]rune, n)
	for i := range runes {
		if i >= n-2 {
			masked[i] = runes[i]
		} else {
			masked[i] = '*'
		}
	}
	return string(masked)
}

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Static("/static", "./web/static")

	r.SetFuncMap(template.FuncMap{
		"eq":        func(a, b interface{}) bool { return a == b },
		"maskEmail": maskEmail,
		"maskPhone": maskPhone,
	})
	r.LoadHTMLGlob("web/templates/*.html")

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("crm_session", store))

	r.Use(middleware.InjectUser())

	// ГЛАВНАЯ
	r.GET("/", handlers.IndexPage)

	// AUTH
	r.GET("/register", handlers.ShowRegister)
	r.POST("/register", handlers.Register)
	r.GET("/login", handlers.ShowLogin)
	r.POST("/login", handlers.Login)
	r.GET("/logout", handlers.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	// ЛИЧНЫЙ КАБИНЕТ
	auth.GET("/account/edit", handlers.ShowEditAccount)
	auth.POST("/account/edit", handlers.UpdateAccount)
	auth.POST("/account/password", handlers.UpdatePassword)

	// КОМПАНИИ
	auth.GET("/companies", handlers.ListCompanies)
	auth.GET("/companies/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.ShowNewCompany,
	)
	auth.POST("/companies/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.CreateCompany,
	)
	auth.GET("/companies/:id", handlers.ShowCompanyDetail)
	auth.GET("/companies/:id/edit",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.ShowEditCompany,
	)
	auth.POST("/companies/:id/edit",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.UpdateCompany,
	)
	auth.POST("/companies/:id/delete",
		middleware.RequireRole(models.RoleAdmin),
		handlers.DeleteCompany,
	)

	// проекты компании (в т.ч. ?status=not_started|in_process|completed)
	auth.GET("/companies/:id/projects", handlers.ShowCompanyProjects)

	// ПРОЕКТЫ
	auth.GET("/projects", handlers.ListProjects)
	auth.GET("/projects/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.ShowNewProject,
	)
	auth.POST("/projects/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.CreateProject,
	)
	auth.GET("/projects/:id", handlers.ShowProjectDetail)
	auth.GET("/projects/:id/edit",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.ShowEditProject,
	)
	auth.POST("/projects/:id/edit",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.UpdateProject,
	)
	auth.POST("/projects/:id/delete",
		middleware.RequireRole(models.RoleAdmin),
		handlers.DeleteProject,
	)

	// ВЗАИМОДЕЙСТВИЯ
	// (?project_id= / ?company_id= / ?channel=phone|email|messenger)
	auth.GET("/interactions", handlers.ListInteractions)
	auth.GET("/interactions/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.ShowNewInteraction,
	)
	auth.POST("/interactions/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.CreateInteraction,
	)
	auth.GET("/interactions/:id", handlers.ShowInteractionDetail)
	auth.GET("/interactions/:id/edit",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.ShowEditInteraction,
	)
	auth.POST("/interactions/:id/edit",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		handlers.UpdateInteraction,
	)
	auth.POST("/interactions/:id/delete",
		middleware.RequireRole(models.RoleAdmin),
		handlers.DeleteInteraction,
	)

	// ПРОФИЛИ
	auth.GET("/customers", handlers.ListCustomers)
	auth.GET("/customers/:id", handlers.ShowCustomerDetail)
	auth.GET("/customers/:id/edit", handlers.ShowEditCustomer)
	auth.POST("/customers/:id/edit", handlers.UpdateCustomer)

	auth.GET("/managers", handlers.ListManagers)
	auth.GET("/managers/:id", handlers.ShowManagerDetail)
	auth.GET("/managers/:id/edit", handlers.ShowEditManager)
	auth.POST("/managers/:id/edit", handlers.UpdateManager)

	// АУДИТ
	auth.GET("/audit",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ListAuditLogs,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
