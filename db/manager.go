package db

import (
	"context"
	"fmt"
	"log"
	"pulse/config"
	"pulse/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

var ORM *gorm.DB

func dsnFromConfig(dbConf config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConf.Host, dbConf.Port, dbConf.User, dbConf.Password, dbConf.DBName,
	)
}

func ConnectDB() (err error) {
	if ORM != nil {
		log.Println("ORM is already initialized")
		return nil
	}

	if config.AppConfig == nil {
		return fmt.Errorf("AppConfig is not loaded")
	}

	var conf = config.AppConfig
	if conf.Databases.Master.Host == "" {
		return fmt.Errorf("master database configuration is missing")
	}

	// Initialize the ORM with the master database
	masterDSN := dsnFromConfig(conf.Databases.Master)
	// Init replicas
	replicaDSNs := make([]gorm.Dialector, 0, len(conf.Databases.Replicas))
	for _, r := range conf.Databases.Replicas {
		replicaDSNs = append(replicaDSNs, postgres.Open(dsnFromConfig(r)))
	}

	database, err := gorm.Open(postgres.Open(masterDSN), &gorm.Config{})
	if err != nil {
		return err
	}

	if len(replicaDSNs) > 0 {
		err = database.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicaDSNs,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return
		}
	}

	err = Migrate(database)
	if err != nil {
		return err
	}

	ORM = database
	return nil
}

// Migrate выполняет автомиграцию всех моделей и доменные индексы
func Migrate(database *gorm.DB) error {
	err := database.AutoMigrate(
		&models.User{},
		&models.Migration{},
		&models.UserTokens{},
		&models.Follow{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}
	return CreateSocialIndexes(database)
}

// GetReadOnlyDB возвращает подключение для чтения (слейвы)
func GetReadOnlyDB(ctx context.Context) *gorm.DB {
	return ORM.WithContext(ctx).Clauses(dbresolver.Read)
}

// GetWriteDB возвращает подключение для записи (мастер)
func GetWriteDB(ctx context.Context) *gorm.DB {
	return ORM.WithContext(ctx).Clauses(dbresolver.Write)
}
