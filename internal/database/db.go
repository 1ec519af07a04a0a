package database

import (
	"log"
	"os"
	"time"

	"crm-online/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	// миграции
	err = DB.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Contact{},
		&models.Customer{},
		&models.ManagerCRM{},
		&models.Project{},
		&models.Interaction{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// создаём дефолтного админа и демо-аккаунты менеджера и заказчика
	createDefaultAdmin()
	seedDefaultUsers()
}

// админ только из кода/конфига
func createDefaultAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin@crm.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Printf("failed to check admin user: %v", err)
		return
	}
	if count > 0 {
		// админ уже есть — ничего не делаем
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		FirstName:    "Админ",
		LastName:     "CRM",
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create default admin: %v", err)
		return
	}

	log.Printf("created default admin user: %s (password: %s)", username, password)
}

// демо-аккаунты менеджера и заказчика вместе с их профилями
func seedDefaultUsers() {
	type seedUser struct {
		Username  string
		Password  string
		Role      models.UserRole
		FirstName string
		LastName  string
	}

	users := []seedUser{
		{
			Username:  "manager@crm.local",
			Password:  "Manager123!",
			Role:      models.RoleManager,
			FirstName: "Иван",
			LastName:  "Петров",
		},
		{
			Username:  "customer@crm.local",
			Password:  "Customer123!",
			Role:      models.RoleCustomer,
			FirstName: "Пётр",
			LastName:  "Иванов",
		},
	}

	for _, u := range users {
		var count int64
		if err := DB.Model(&models.User{}).
			Where("username = ?", u.Username).
			Count(&count).Error; err != nil {
			log.Printf("failed to check seed user %s: %v", u.Username, err)
			continue
		}
		if count > 0 {
			// уже есть — пропускаем
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("failed to hash password for %s: %v", u.Username, err)
			continue
		}

		user := models.User{
			Username:     u.Username,
			PasswordHash: string(hash),
			Role:         u.Role,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
		}

		if err := DB.Create(&user).Error; err != nil {
			log.Printf("failed to create seed user %s: %v", u.Username, err)
			continue
		}

		// профиль с именем, совпадающим с учётной записью
		switch u.Role {
		case models.RoleManager:
			profile := models.ManagerCRM{UserID: user.ID, Name: user.FullName()}
			if err := DB.Create(&profile).Error; err != nil {
				log.Printf("failed to create manager profile for %s: %v", u.Username, err)
			}
		case models.RoleCustomer:
			profile := models.Customer{UserID: user.ID, Name: user.FullName()}
			if err := DB.Create(&profile).Error; err != nil {
				log.Printf("failed to create customer profile for %s: %v", u.Username, err)
			}
		}

		log.Printf("created seed user: %s (role=%s, password=%s)", u.Username, u.Role, u.Password)
	}
}
