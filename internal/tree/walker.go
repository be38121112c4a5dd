package tree

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// 树形连接符（盒绘字符）
const (
	ConnectorBranch = "├── " // 非末尾兄弟节点
	ConnectorCorner = "└── " // 每层最后一个兄弟节点
	ExtensionBar    = "│   " // 非末尾节点的延续前缀
	ExtensionBlank  = "    " // 末尾节点的延续前缀
)

// SortMode 目录条目的排序方式
type SortMode int

const (
	// SortLexical 按名称字典序排序
	SortLexical SortMode = iota
	// SortDirsFirst 目录在前、文件在后，组内按小写名称字典序
	SortDirsFirst
)

// Options 遍历选项
type Options struct {
	// Exclude 按名称排除的条目集合
	Exclude map[string]struct{}

	// ExcludePrefixes 按名称前缀排除（例如 ".git" 前缀）
	ExcludePrefixes []string

	// Sort 排序方式
	Sort SortMode

	// SkipUnreadable 为 true 时，无法读取的子目录被静默跳过（子树为空）；
	// 否则读取错误向上传播
	SkipUnreadable bool
}

// Line 遍历产出的一行：前缀（缩进与连接符）加条目名
type Line struct {
	Prefix string
	Name   string
	Depth  int
	IsDir  bool
}

// String 返回该行的纯文本形式
func (l Line) String() string {
	return l.Prefix + l.Name
}

// Walk 对 root 做深度优先、前序遍历，每个可达且未被排除的条目产出一行。
// 不做符号链接环检测。
func Walk(fsys afero.Fs, root string, opts Options) ([]Line, error) {
	var lines []Line
	if err := walk(fsys, root, "", 0, opts, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func walk(fsys afero.Fs, dir, prefix string, depth int, opts Options, out *[]Line) error {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if opts.SkipUnreadable {
			// 权限不足等读取失败：该子树按空处理
			return nil
		}
		return err
	}

	type entry struct {
		name  string
		isDir bool
	}

	entries := make([]entry, 0, len(infos))
	for _, info := range infos {
		if excluded(info.Name(), opts) {
			continue
		}
		entries = append(entries, entry{name: info.Name(), isDir: info.IsDir()})
	}

	switch opts.Sort {
	case SortDirsFirst:
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].isDir != entries[j].isDir {
				return entries[i].isDir
			}
			return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
		})
	default:
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].name < entries[j].name
		})
	}

	for i, e := range entries {
		connector := ConnectorBranch
		extension := ExtensionBar
		if i == len(entries)-1 {
			connector = ConnectorCorner
			extension = ExtensionBlank
		}

		*out = append(*out, Line{
			Prefix: prefix + connector,
			Name:   e.name,
			Depth:  depth,
			IsDir:  e.isDir,
		})

		if e.isDir {
			sub := filepath.Join(dir, e.name)
			if err := walk(fsys, sub, prefix+extension, depth+1, opts, out); err != nil {
				return err
			}
		}
	}

	return nil
}

func excluded(name string, opts Options) bool {
	if _, ok := opts.Exclude[name]; ok {
		return true
	}
	for _, p := range opts.ExcludePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// ExcludeSet 把名称列表转成排除集合
func ExcludeSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
