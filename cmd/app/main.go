package main

import (
	"community-board/internal/app"
	"community-board/pkg/config"

	_ "community-board/docs" // Swagger docs
)

// @title           Community Board API
// @version         1.0
// @description     Accounts, posts, comments and likes for the community board.

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
