package cmd

import (
	"Tunebox/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动Tunebox服务器",
	Long:  `启动Tunebox的HTTP服务器，提供API服务、上传文件访问和Web界面`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
