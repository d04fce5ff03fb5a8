// app/bootstrap.go
package app

import (
	"context"
	"fmt"
	"log"

	"Gin_postgres_redis_seller_admin/db"
	"Gin_postgres_redis_seller_admin/models"

	"github.com/google/uuid"
	"github.com/sethvargo/go-password/password"
	"golang.org/x/crypto/bcrypt"
)

// BootstrapFirstAdmin 首次部署没有任何管理员时，用 BOOTSTRAP_USERNAME
// 建一个带临时密码的管理员账号，密码只打印这一次
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	fmt.Println("Checking if admin user exists...")
	if cfg.BootstrapUsername == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		log.Printf("bootstrap: count admins: %v", err)
		return
	}
	if n > 0 {
		return // 已经有管理员，跳过
	}

	tempPwd, err := password.Generate(16, 4, 2, false, false)
	if err != nil {
		log.Printf("bootstrap: generate password: %v", err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPwd), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("bootstrap: hash password: %v", err)
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     cfg.BootstrapUsername,
		DisplayName:  cfg.BootstrapUsername,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap admin failed: %v", err)
		return
	}

	log.Printf("[BOOTSTRAP] No admin found, created admin %s", cfg.BootstrapUsername)
	log.Printf("[BOOTSTRAP] Temporary password (change it after first login): %s", tempPwd)
}
