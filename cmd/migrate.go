package cmd

import (
	"fmt"

	"Tunebox/core/account"
	"Tunebox/db"
	"Tunebox/repository"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "创建数据表并初始化管理员账号",
	Long:  `连接配置的数据库，执行表结构迁移，并在管理员账号不存在时创建它。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gormDB, err := db.Connect(cfg)
		if err != nil {
			return err
		}
		defer db.Close(gormDB)

		if err := db.Migrate(gormDB); err != nil {
			return err
		}

		users := repository.NewGormUserRepository(gormDB)
		// Seeding only hashes a password; no tokens are issued.
		accounts := account.NewService(users, nil, cfg.BcryptCost)
		created, err := accounts.SeedAdmin(cmd.Context(), cfg.AdminLogin, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}

		fmt.Printf("数据库迁移完成 (%s)\n", cfg.DBDriver)
		if created {
			fmt.Printf("已创建管理员账号: %s\n", cfg.AdminLogin)
		}

		userCount, err := users.CountUsers(cmd.Context())
		if err != nil {
			return err
		}
		trackCount, err := repository.NewGormTrackRepository(gormDB).CountTracks(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("用户数: %d, 歌曲数: %d\n", userCount, trackCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
