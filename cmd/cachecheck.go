package cmd

import (
	"fmt"

	"MeldFM/cache"
	"MeldFM/config"

	"github.com/spf13/cobra"
)

var cachecheckCmd = &cobra.Command{
	Use:   "cachecheck",
	Short: "检查Redis连接",
	Long:  `连接Redis并执行一次读写删往返，验证热缓存可用`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cache.ConnectRedis(cfg); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer cache.CloseRedis()

		if err := cache.CheckRedis(); err != nil {
			return fmt.Errorf("redis check failed: %w", err)
		}
		fmt.Println("Redis connection OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cachecheckCmd)
}
