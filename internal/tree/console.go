package tree

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// 图标模式下的条目标记
const (
	IconDir  = "📁"
	IconFile = "📄"
)

// RenderOptions 控制台输出选项
type RenderOptions struct {
	// Icons 为 true 时在条目名前加 📁/📄 标记
	Icons bool

	// Color 为 true 时目录名以高亮色输出
	Color bool
}

// Render 把遍历结果写到 w，每行一个条目
func Render(w io.Writer, lines []Line, opts RenderOptions) error {
	dirName := color.New(color.FgCyan, color.Bold)
	for _, l := range lines {
		name := l.Name
		if opts.Color && l.IsDir {
			name = dirName.Sprint(name)
		}
		if opts.Icons {
			icon := IconFile
			if l.IsDir {
				icon = IconDir
			}
			name = icon + " " + name
		}
		if _, err := fmt.Fprintln(w, l.Prefix+name); err != nil {
			return err
		}
	}
	return nil
}

// Text 返回各行的纯文本形式（不带图标与颜色），供图片渲染等收集型输出使用
func Text(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

// ParseDepths 从渲染后的文本反推每个条目的嵌套深度。
// 深度 = 连接符之前的前缀长度（按 rune 计）除以前缀单元宽度 4。
// 不含连接符的行（例如根名称行）被跳过。
func ParseDepths(text string) []int {
	var depths []int
	for _, line := range strings.Split(text, "\n") {
		idx := connectorIndex(line)
		if idx < 0 {
			continue
		}
		depths = append(depths, utf8.RuneCountInString(line[:idx])/4)
	}
	return depths
}

func connectorIndex(line string) int {
	b := strings.Index(line, ConnectorBranch)
	c := strings.Index(line, ConnectorCorner)
	switch {
	case b < 0:
		return c
	case c < 0:
		return b
	case b < c:
		return b
	default:
		return c
	}
}
