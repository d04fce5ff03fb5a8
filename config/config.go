package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv 本地开发读 .env；生产环境没有该文件，忽略即可
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment variables")
	}
}
