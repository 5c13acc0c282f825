// Package config 读取与写入 luau-transpile.toml
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
)

// 常量定义
const (
	FileName = "luau-transpile.toml" // 配置文件名
)

// Config 工具配置
type Config struct {
	Transpile TranspileConfig `toml:"transpile"`
	LSP       LSPConfig       `toml:"lsp"`
}

// TranspileConfig transpile 子命令的默认选项
type TranspileConfig struct {
	// WithTypes 保留类型注解与类型声明
	WithTypes bool `toml:"with_types" comment:"keep type annotations and type declarations"`

	// Canonical 忽略记录的排版，按规范形式输出
	Canonical bool `toml:"canonical" comment:"ignore recorded formatting and print canonical layout"`
}

// LSPConfig 语言服务器选项
type LSPConfig struct {
	// LogFile 日志文件路径，为空时不写日志
	LogFile string `toml:"log_file" comment:"log file path; empty disables logging"`

	// LogLevel 日志级别（debug/info/warn/error）
	LogLevel string `toml:"log_level" comment:"debug, info, warn or error"`

	// FormatWithTypes 格式化文档时保留类型
	FormatWithTypes bool `toml:"format_with_types" comment:"keep types when formatting a document"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Transpile: TranspileConfig{
			WithTypes: true,
		},
		LSP: LSPConfig{
			LogLevel:        "info",
			FormatWithTypes: true,
		},
	}
}

// Load 从文件加载配置
//
// 文件中缺省的键保留默认值；未知的键与非法的日志级别都是错误。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

// Resolve 确定要使用的配置
//
// explicit 非空时必须能加载；否则从 startDir 向上查找，找不到时使用默认配置。
//
// 返回:
//   - *Config: 配置
//   - string: 配置文件路径，使用默认配置时为空
//   - error: 加载失败
func Resolve(explicit, startDir string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = Find(startDir)
	}
	if path == "" {
		return Default(), "", nil
	}

	config, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return config, path, nil
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	content := append([]byte("# luau transpiler configuration\n\n"), data...)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LSP.LogLevel)); err != nil {
		return fmt.Errorf("lsp.log_level: %w", err)
	}
	return nil
}

// LogLevel 返回语言服务器的日志级别，非法取值按 info 处理
func (c *Config) LogLevel() zapcore.Level {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(c.LSP.LogLevel)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Find 从指定路径向上查找配置文件
// 返回配置文件的完整路径，如果找不到则返回空字符串
func Find(startPath string) string {
	// 如果是文件，从其所在目录开始
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	dir := startPath
	if !info.IsDir() {
		dir = filepath.Dir(startPath)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// 已到达根目录
			return ""
		}
		dir = parent
	}
}
