package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-internist/devtools/internal/config"
	"github.com/go-internist/devtools/internal/logger"
	"github.com/go-internist/devtools/internal/smoketest"
	"github.com/go-internist/devtools/pkg/avalai"
)

func newTranslateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "AvalaAI 翻译网关的冒烟测试与单次调用",
	}

	cmd.AddCommand(newTranslateCheckCommand())
	cmd.AddCommand(newTranslateSmokeCommand())
	cmd.AddCommand(newTranslateOnceCommand())

	return cmd
}

// buildRunner 装配客户端与运行器，翻译子命令共用
func buildRunner(log *zap.Logger) (*smoketest.Runner, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	client := avalai.New(avalai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.RequestTimeoutDuration(),
	})

	runnerCfg := smoketest.RunnerConfig{
		Delay:        cfg.CaseDelayDuration(),
		CallTimeout:  cfg.RequestTimeoutDuration(),
		CheckTimeout: cfg.CheckTimeoutDuration(),
	}

	return smoketest.NewRunner(client, runnerCfg, os.Stdout, log), nil
}

func newTranslateCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "检查 API 密钥与端点连通性",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLoggerWithVerbose(debugMode, verboseMode)
			defer func() {
				_ = log.Sync()
			}()

			runner, err := buildRunner(log)
			if err != nil {
				return err
			}
			_, err = runner.RunCheck(cmd.Context())
			return err
		},
	}
}

func newTranslateSmokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "对固定的波斯语医学文本用例表跑一轮翻译冒烟测试",
		Long: `先做一次连通性检查，然后顺序执行固定用例表：每条用例一次
/responses 调用，打印状态码、耗时和译文，用例之间停顿固定间隔。
单条用例失败只打印、不中断，结束后输出汇总表。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLoggerWithVerbose(debugMode, verboseMode)
			defer func() {
				_ = log.Sync()
			}()

			runner, err := buildRunner(log)
			if err != nil {
				return err
			}

			// 连通性失败不阻断用例执行，与原脚本行为一致
			if _, err := runner.RunCheck(cmd.Context()); err != nil {
				log.Warn("连通性检查未通过，继续执行用例", zap.Error(err))
			}

			runner.Run(cmd.Context())
			return nil
		},
	}
}

func newTranslateOnceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "once [text...]",
		Short: "单次 chat/completions 翻译调用",
		Long:  `通过 chat 消息列表形态发送一次翻译请求并打印 choices[0].message.content。不带参数时使用内置示例文本。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLoggerWithVerbose(debugMode, verboseMode)
			defer func() {
				_ = log.Sync()
			}()

			runner, err := buildRunner(log)
			if err != nil {
				return err
			}

			_, err = runner.OneShot(cmd.Context(), strings.Join(args, " "))
			return err
		},
	}
}
