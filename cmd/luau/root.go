package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JohnnyMorganz/luau/internal/config"
	"github.com/JohnnyMorganz/luau/internal/i18n"
)

// skipConfig 带有该注解的命令不加载配置文件
const skipConfig = "luau/skip-config"

// app 所有子命令共享的状态
type app struct {
	// 全局参数
	configPath string
	lang       string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// newRootCmd 创建根命令
func newRootCmd() *cobra.Command {
	a := &app{
		cfg:    config.Default(),
		logger: zap.NewNop(),
	}

	root := &cobra.Command{
		Use:               "luau",
		Short:             i18n.T(i18n.CmdRootShort),
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", i18n.T(i18n.FlagConfig))
	flags.StringVar(&a.lang, "lang", "", i18n.T(i18n.FlagLang))
	flags.BoolVarP(&a.verbose, "verbose", "v", false, i18n.T(i18n.FlagVerbose))
	cobra.MarkFlagFilename(flags, "config", "toml")

	root.AddCommand(
		newTranspileCmd(a),
		newCheckCmd(a),
		newInitCmd(a),
		newLspCmd(a),
	)
	return root
}

// setup 初始化语言、日志与配置
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.lang != "" {
		i18n.SetLanguage(i18n.Match(a.lang))
	}

	if a.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		a.logger = logger
	}

	if cmd.Annotations[skipConfig] != "" {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, path, err := config.Resolve(a.configPath, wd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if path == "" {
		a.logger.Debug("no config file found, using defaults")
	} else {
		a.logger.Debug("loaded config", zap.String("path", path))
	}
	return nil
}
