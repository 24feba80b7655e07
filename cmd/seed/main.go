package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/yankaics/OnlineJudge/internal/config"
	"github.com/yankaics/OnlineJudge/internal/models"
	"github.com/yankaics/OnlineJudge/pkg/database"
	"github.com/yankaics/OnlineJudge/pkg/logger"
)

// 로컬 개발용 초기 데이터: 슈퍼관리자 계정과 샘플 문제
func main() {
	username := flag.String("admin", "root", "super admin username")
	password := flag.String("password", "", "super admin password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	hash, err := models.HashPassword(*password)
	if err != nil {
		logger.Fatal("Failed to hash password", "error", err)
	}

	var adminID int64
	err = db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, admin_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, admin_type = EXCLUDED.admin_type
		RETURNING id
	`, *username, hash, models.AdminTypeSuperAdmin).Scan(&adminID)
	if err != nil {
		logger.Fatal("Failed to upsert super admin", "error", err)
	}
	logger.Info("Super admin ready", "userId", adminID, "username", *username)

	var problemID int64
	err = db.QueryRowContext(ctx, `
		INSERT INTO problems (title, time_limit, memory_limit, test_case_id, visible)
		SELECT 'A + B', 1000, 256, 'sample-a-plus-b', TRUE
		WHERE NOT EXISTS (SELECT 1 FROM problems WHERE test_case_id = 'sample-a-plus-b')
		RETURNING id
	`).Scan(&problemID)
	switch {
	case err == nil:
		logger.Info("Sample problem created", "problemId", problemID)
	case errors.Is(err, sql.ErrNoRows):
		logger.Info("Sample problem already present")
	default:
		logger.Fatal("Failed to create sample problem", "error", err)
	}
}
