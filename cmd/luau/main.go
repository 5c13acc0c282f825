// Command luau 是 Luau 保留格式转写工具的命令行入口
package main

import (
	"os"
	"strings"

	"github.com/JohnnyMorganz/luau/internal/i18n"
)

const (
	Version = "0.1.0"
)

func main() {
	// 命令说明在解析参数之前生成，所以先预扫描 --lang
	i18n.SetLanguage(i18n.Detect(scanLang(os.Args[1:])))

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// scanLang 从参数中取出 --lang 的值，不修改参数
func scanLang(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return ""
		case arg == "--lang" || arg == "-lang":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "--lang="):
			return strings.TrimPrefix(arg, "--lang=")
		case strings.HasPrefix(arg, "-lang="):
			return strings.TrimPrefix(arg, "-lang=")
		}
	}
	return ""
}
