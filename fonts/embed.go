package fonts

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// 内置字体：Go Regular 用于文本轮廓，Go Bold 用于标签纹理。
var builtin = map[string][]byte{
	"regular": goregular.TTF,
	"bold":    gobold.TTF,
}

var (
	parsedMu sync.Mutex
	parsed   = map[string]*sfnt.Font{}
)

// Load 返回字体字节数据。src 可写为 "embed:regular"、"embed:bold"，
// 空字符串等同于 "embed:regular"，其余视为 TTF/OTF 文件路径。
func Load(src string) ([]byte, error) {
	if src == "" {
		src = "embed:regular"
	}
	if strings.HasPrefix(src, "embed:") {
		name := strings.TrimPrefix(src, "embed:")
		data, ok := builtin[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置字体 %s", src)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// Parse loads and parses a font, caching the result per src.
// The returned *sfnt.Font is safe for concurrent use with distinct sfnt.Buffers.
func Parse(src string) (*sfnt.Font, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()
	if f, ok := parsed[src]; ok {
		return f, nil
	}
	data, err := Load(src)
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", src, err)
	}
	parsed[src] = f
	return f, nil
}
