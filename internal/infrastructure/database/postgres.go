package database

import (
	"errors"
	"fmt"

	"github.com/sangkips/mscheesy-pos/internal/config"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/pkg/money"
	"github.com/sangkips/mscheesy-pos/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, development bool, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if development {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	log.Info("connected to postgres", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		&entity.Product{},

		&entity.OrderCounter{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Sale{},
		&entity.SaleItem{},

		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

var rolePermissions = map[string][]string{
	entity.RoleAdmin: {
		entity.PermTakeOrders,
		entity.PermManageKitchen,
		entity.PermManageProducts,
		entity.PermViewReports,
		entity.PermManageSettings,
	},
	entity.RoleCashier: {entity.PermTakeOrders},
	entity.RoleKitchen: {entity.PermManageKitchen},
}

type menuItem struct {
	name     string
	price    float64
	category enum.ProductCategory
	hint     string
}

var sampleMenu = []menuItem{
	{"The Classic", 189.99, enum.CategorySandwiches, "grilled cheese"},
	{"Bacon Bliss", 229.99, enum.CategorySandwiches, "bacon sandwich"},
	{"Jalapeño Popper", 209.99, enum.CategorySandwiches, "spicy sandwich"},
	{"Veggie Delight", 199.49, enum.CategorySandwiches, "vegetable sandwich"},
	{"Tomato Soup", 95.50, enum.CategorySides, "tomato soup"},
	{"French Fries", 75.50, enum.CategorySides, "french fries"},
	{"Onion Rings", 85.00, enum.CategorySides, "onion rings"},
	{"Mozzarella Sticks", 115.50, enum.CategorySides, "mozzarella sticks"},
	{"Cola", 55.50, enum.CategoryDrinks, "soda can"},
	{"Lemonade", 65.00, enum.CategoryDrinks, "lemonade glass"},
	{"Water", 35.00, enum.CategoryDrinks, "water bottle"},
	{"Iced Tea", 59.75, enum.CategoryDrinks, "iced tea"},
}

// SeedDefaultData seeds roles, permissions, the order counter, the admin user and the sample menu.
// Every step is idempotent.
func SeedDefaultData(db *gorm.DB, log *zap.Logger) error {
	log.Info("seeding default data")

	permissions := map[string]entity.Permission{}
	for _, names := range rolePermissions {
		for _, name := range names {
			if _, ok := permissions[name]; ok {
				continue
			}
			perm := entity.Permission{Name: name}
			if err := db.Where(entity.Permission{Name: name}).FirstOrCreate(&perm).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", name, err)
			}
			permissions[name] = perm
		}
	}

	for roleName, names := range rolePermissions {
		role := entity.Role{Name: roleName}
		if err := db.Where(entity.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", roleName, err)
		}
		perms := make([]entity.Permission, 0, len(names))
		for _, name := range names {
			perms = append(perms, permissions[name])
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("seed role %s permissions: %w", roleName, err)
		}
	}

	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.OrderCounter{Name: "orders", Value: 0}).Error
	if err != nil {
		return fmt.Errorf("seed order counter: %w", err)
	}

	if err := seedAdmin(db, log); err != nil {
		return err
	}
	if err := seedMenu(db, log); err != nil {
		return err
	}

	log.Info("default data seeded")
	return nil
}

func seedAdmin(db *gorm.DB, log *zap.Logger) error {
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")
	if adminEmail == "" || adminPassword == "" {
		log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	var existing entity.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin user: %w", err)
	}

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	var adminRole entity.Role
	if err := db.Where("name = ?", entity.RoleAdmin).First(&adminRole).Error; err != nil {
		return fmt.Errorf("load admin role: %w", err)
	}
	if adminName == "" {
		adminName = "Store Admin"
	}

	admin := entity.User{
		Name:     adminName,
		Email:    adminEmail,
		Password: hashed,
		Roles:    []entity.Role{adminRole},
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Info("admin user created", zap.String("email", adminEmail))
	return nil
}

func seedMenu(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&entity.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := make([]entity.Product, 0, len(sampleMenu))
	for _, item := range sampleMenu {
		products = append(products, entity.Product{
			Name:        item.name,
			Price:       money.FromFloat(item.price),
			Category:    item.category,
			Description: item.hint,
			IsAvailable: true,
		})
	}
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}
	log.Info("sample menu seeded", zap.Int("products", len(products)))
	return nil
}
