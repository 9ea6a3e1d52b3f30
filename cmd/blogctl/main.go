package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/config"
	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
	"github.com/d60-Lab/techblog/internal/service"
	"github.com/d60-Lab/techblog/pkg/database"
)

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "运维工具：建管理员、导卡密、铺底数据、清理过期单",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB 读配置并连库，所有子命令共用。
func openDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return db, nil
}

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "创建管理员账号（用户名已存在则仅提升角色）",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)
		ctx := context.Background()

		userRepo := repository.NewUserRepository(db)
		if existing, err := userRepo.GetByUsername(ctx, adminUsername); err == nil {
			if err := userRepo.UpdateRole(ctx, existing.ID, model.RoleAdmin); err != nil {
				return err
			}
			fmt.Printf("user %s promoted to admin\n", adminUsername)
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &model.User{
			ID:       uuid.New().String(),
			Username: adminUsername,
			Email:    adminEmail,
			Password: string(hash),
			Nickname: adminUsername,
			Role:     model.RoleAdmin,
			Status:   model.UserStatusActive,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		fmt.Printf("admin %s created (id=%s)\n", adminUsername, user.ID)
		return nil
	},
}

var (
	keysProductID string
	keysFile      string
)

var importKeysCmd = &cobra.Command{
	Use:   "import-keys",
	Short: "从文件批量导入卡密，每行一条",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)
		ctx := context.Background()

		f, err := os.Open(keysFile)
		if err != nil {
			return err
		}
		defer f.Close()

		var secrets []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				secrets = append(secrets, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		if len(secrets) == 0 {
			return fmt.Errorf("no keys found in %s", keysFile)
		}

		shopSvc := service.NewShopService(
			repository.NewProductRepository(db),
			repository.NewOrderRepository(db),
			repository.NewCouponRepository(db),
			0,
		)
		n, err := shopSvc.ImportKeys(ctx, keysProductID, secrets)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d keys into product %s\n", n, keysProductID)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "铺底：内置支付渠道与公开站点设置",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)
		ctx := context.Background()

		if err := repository.NewChannelRepository(db).SeedDefaults(ctx); err != nil {
			return fmt.Errorf("seed channels: %w", err)
		}

		settingRepo := repository.NewSettingRepository(db)
		defaults := []struct{ key, value, desc string }{
			{model.SettingSiteTitle, "TechBlog", "站点标题"},
			{model.SettingSiteSubtitle, "一个讲技术的小站", "站点副标题"},
			{model.SettingICPNumber, "", "备案号"},
			{model.SettingAnnouncement, "", "首页公告"},
		}
		for _, d := range defaults {
			if err := settingRepo.UpsertIfAbsent(ctx, d.key, d.value, d.desc); err != nil {
				return fmt.Errorf("seed setting %s: %w", d.key, err)
			}
		}
		fmt.Println("seed done")
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "手动跑一轮清理：关过期单、下过期话题",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		sweeper := service.NewSweeper(
			repository.NewOrderRepository(db),
			repository.NewTopicRepository(db),
			nil,
			time.Minute,
		)
		sweeper.SweepOnce(context.Background())
		fmt.Println("sweep done")
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "管理员用户名")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "管理员邮箱")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "登录密码")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	importKeysCmd.Flags().StringVar(&keysProductID, "product", "", "商品 ID")
	importKeysCmd.Flags().StringVar(&keysFile, "file", "", "卡密文件路径，每行一条")
	_ = importKeysCmd.MarkFlagRequired("product")
	_ = importKeysCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(createAdminCmd, importKeysCmd, seedCmd, sweepCmd)
}
