package main

import (
	"log"

	"yatube/config"
	"yatube/models"
	"yatube/routes"
	"yatube/utils"
)

func main() {
	config.Load()
	cfg := config.Get()

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		_ = utils.Logger.Sync()
	}()

	config.InitDatabase(
		&models.User{},
		&models.Profile{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.Bookmark{},
		&models.PageView{},
	)

	router := routes.SetupRouter()

	addr := ":" + cfg.AppPort
	utils.Sugar.Infof("server starting on %s", addr)
	if err := utils.GraceServer(addr, router); err != nil {
		utils.Sugar.Fatalf("server exited: %v", err)
	}
}
