package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// 全局标志变量
	cfgFile     string
	debugMode   bool
	verboseMode bool // 显示详细日志
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devtools",
		Short: "go_internist 项目的开发辅助工具集",
		Long: `go_internist 项目的开发辅助工具集，把原先散落的单用途脚本收拢到一个命令行入口：

  tree       打印目录树（纯文本 / 图标 / 图片输出）
  translate  针对 AvalaAI 翻译网关的冒烟测试与单次调用

API 密钥通过 AVALAI_API_KEY 环境变量、.env 文件或配置文件提供，绝不写进源码。`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径（默认搜索 ~/.devtools.yaml 和 ./.devtools.yaml）")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "输出调试日志")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "显示详细日志")

	rootCmd.AddCommand(newTreeCommand())
	rootCmd.AddCommand(newTranslateCommand())

	return rootCmd
}
