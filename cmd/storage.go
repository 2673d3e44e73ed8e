package cmd

import (
	"fmt"
	"sort"

	"Tunebox/storage"

	"github.com/spf13/cobra"
)

var (
	storagePrefix string
	storageStats  bool
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "查看上传文件存储",
	Long:  `列出本地上传目录或MinIO存储桶中的文件，并可显示按类型汇总的统计信息。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := storage.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("无法打开文件存储: %w", err)
		}
		fmt.Printf("文件存储: %s\n", files.Location())

		objects, stats, err := files.List(cmd.Context(), storagePrefix)
		if err != nil {
			return fmt.Errorf("列出文件失败: %w", err)
		}

		if storageStats {
			printStorageStats(objects, stats)
			return nil
		}

		for _, obj := range objects {
			fmt.Printf("%-60s %10s  %s\n", obj.Key, storage.FormatSize(obj.Size), obj.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("\n共 %d 个文件\n", len(objects))
		return nil
	},
}

func printStorageStats(objects []storage.ObjectInfo, stats *storage.BucketStats) {
	fmt.Println("\n存储统计信息:")
	fmt.Printf("总文件数: %d\n", stats.TotalObjects)
	fmt.Printf("总大小: %s\n", storage.FormatSize(stats.TotalSize))
	if stats.TotalObjects > 0 {
		fmt.Printf("最后修改时间: %s\n", stats.LastModified.Format("2006-01-02 15:04:05"))
	}

	usage := storage.Usage(objects)
	categories := make([]string, 0, len(usage))
	for category := range usage {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Printf("  %-6s %s\n", category, storage.FormatSize(usage[category]))
	}
}

func init() {
	rootCmd.AddCommand(storageCmd)

	storageCmd.Flags().StringVarP(&storagePrefix, "prefix", "p", "", "按前缀过滤文件")
	storageCmd.Flags().BoolVarP(&storageStats, "stats", "s", false, "显示存储统计信息")

	storageCmd.Example = `  # 列出所有文件
  tunebox storage

  # 按前缀过滤文件
  tunebox storage -p "1700000000"

  # 显示统计信息
  tunebox storage -s`
}
