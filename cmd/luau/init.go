package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JohnnyMorganz/luau/internal/config"
	"github.com/JohnnyMorganz/luau/internal/i18n"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       i18n.T(i18n.CmdInitShort),
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, i18n.T(i18n.FlagForce))
	return cmd
}

// runInit 在工作目录（或 --config 指定的位置）写入默认配置
func (a *app) runInit(cmd *cobra.Command, force bool) error {
	path := a.configPath
	if path == "" {
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, config.FileName)
	}

	// 检查是否已存在配置文件
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s", i18n.T(i18n.ErrConfigExists, path))
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), i18n.T(i18n.MsgConfigWritten, path))
	return nil
}
