package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-internist/devtools/internal/config"
	"github.com/go-internist/devtools/internal/logger"
	"github.com/go-internist/devtools/internal/render"
	"github.com/go-internist/devtools/internal/tree"
)

// 图标模式额外跳过的目录
var iconStyleExtraExcludes = []string{"__pycache__"}

func newTreeCommand() *cobra.Command {
	var (
		style     string
		excludes  []string
		dirsFirst bool
		asImage   bool
		output    string
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "打印目录树",
		Long: `递归列出目录条目并以盒绘连接符展示层级。

三种输出形态：
  --style plain   纯文本（默认），字典序排序
  --style icons   目录/文件带 📁/📄 标记，目录在前，权限错误静默跳过
  --output x.jpg  把树画成等宽字体位图并写入文件
  --image         同上，文件名取 tree.output 配置项`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLoggerWithVerbose(debugMode, verboseMode)
			defer func() {
				_ = log.Sync()
			}()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			if style != "plain" && style != "icons" {
				return fmt.Errorf("unknown style %q (want plain or icons)", style)
			}

			if output == "" && asImage {
				output = cfg.Tree.Output
			}

			opts := tree.Options{
				Exclude:         tree.ExcludeSet(cfg.Tree.Exclude...),
				ExcludePrefixes: cfg.Tree.ExcludePrefixes,
			}
			for _, e := range excludes {
				opts.Exclude[e] = struct{}{}
			}
			if output != "" {
				applyImagePreset(&opts, output)
			}

			// 图标与图片形态沿用目录在前的排序；纯文本默认字典序
			if !cmd.Flags().Changed("dirs-first") {
				dirsFirst = style == "icons" || output != ""
			}
			if dirsFirst {
				opts.Sort = tree.SortDirsFirst
			}
			if style == "icons" {
				opts.SkipUnreadable = true
				for _, e := range iconStyleExtraExcludes {
					opts.Exclude[e] = struct{}{}
				}
			}

			log.Debug("遍历目录",
				zap.String("root", root),
				zap.String("style", style),
				zap.Bool("dirsFirst", dirsFirst),
				zap.String("output", output))

			lines, err := tree.Walk(afero.NewOsFs(), root, opts)
			if err != nil {
				return fmt.Errorf("failed to walk %s: %w", root, err)
			}

			if output != "" {
				return writeTreeImage(root, lines, output)
			}

			if style == "icons" {
				fmt.Println("📁 Project Tree")
				fmt.Println()
			}
			return tree.Render(os.Stdout, lines, tree.RenderOptions{
				Icons: style == "icons",
				Color: !noColor && style != "icons",
			})
		},
	}

	cmd.Flags().StringVar(&style, "style", "plain", "输出形态：plain 或 icons")
	cmd.Flags().StringSliceVarP(&excludes, "exclude", "e", nil, "追加排除的条目名（可重复）")
	cmd.Flags().BoolVar(&dirsFirst, "dirs-first", false, "目录在前、文件在后排序")
	cmd.Flags().BoolVar(&asImage, "image", false, "渲染成 JPEG，文件名取 tree.output 配置项")
	cmd.Flags().StringVarP(&output, "output", "o", "", "把树渲染成 JPEG 并写入该文件")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "关闭目录名着色")

	return cmd
}

// applyImagePreset 图片形态额外排除 .git* 前缀条目和输出文件自身，
// 再次运行时上一次的产物不进入树
func applyImagePreset(opts *tree.Options, output string) {
	opts.ExcludePrefixes = append(opts.ExcludePrefixes, ".git")
	opts.Exclude[filepath.Base(output)] = struct{}{}
}

// writeTreeImage 图片形态：根目录名作首行，正文为纯文本树
func writeTreeImage(root string, lines []tree.Line, output string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	text := append([]string{filepath.Base(abs)}, tree.Text(lines)...)

	img, err := render.RenderImage(text, render.ImageOptions{})
	if err != nil {
		return fmt.Errorf("failed to render tree image: %w", err)
	}
	if err := render.SaveJPEG(img, output, 0); err != nil {
		return err
	}
	fmt.Printf("Saved tree to %s\n", output)
	return nil
}
