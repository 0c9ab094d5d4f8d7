package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/John-Robertt/acmensa/internal/app/menu"
	"github.com/John-Robertt/acmensa/internal/config"
	"github.com/John-Robertt/acmensa/internal/dates"
	"github.com/John-Robertt/acmensa/internal/logx"
)

// session 是 PersistentPreRunE 之后所有子命令共享的状态。
type session struct {
	deps    deps
	eff     config.EffectiveConfig
	catalog config.Catalog
	log     *zap.Logger
	dates   dates.Context
}

func (s *session) service() (menu.Service, error) {
	src, err := s.deps.newSource(s.eff)
	if err != nil {
		return menu.Service{}, err
	}
	return menu.Service{Source: src, Mensa: s.eff.Mensa, Locale: s.eff.Locale, Log: s.log}, nil
}

func newRootCmd(d deps) *cobra.Command {
	var (
		mensa   string
		english bool
		verbose bool
	)
	s := &session{deps: d}

	root := &cobra.Command{
		Use:           "acmensa",
		Short:         "获取并展示 Studierendenwerk Aachen 各食堂的每周菜单",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logx.New(cmd.ErrOrStderr(), logx.LevelFromEnv(verbose))
			if err != nil {
				return err
			}
			s.log = log

			cat, err := config.DefaultCatalog()
			if err != nil {
				return err
			}
			s.catalog = cat

			flags := cmd.Flags()
			eff, err := config.LoadEffective(config.CLIArgs{
				Mensa:      mensa,
				MensaSet:   flags.Changed("mensa"),
				English:    english,
				EnglishSet: flags.Changed("english"),
			})
			if err != nil {
				return err
			}
			s.eff = eff
			if eff.ConfigPath != "" {
				log.Info("已读取配置文件", zap.String("path", eff.ConfigPath))
			}

			s.dates = dates.NewContext(d.now(), eff.TimezoneOffsetHours)
			log.Info("日期范围",
				zap.String("today", s.dates.Today.Format(dates.DisplayLayout)),
				zap.String("first", s.dates.FirstAvail.Format(dates.DisplayLayout)),
				zap.String("last", s.dates.LastAvail.Format(dates.DisplayLayout)),
			)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if s.log != nil {
				_ = s.log.Sync()
			}
		},
	}
	root.SetVersionTemplate("acmensa version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&mensa, "mensa", "m", "", "目标食堂（见 acmensa mensen；默认读配置，最终默认 ahornstrasse）")
	pf.BoolVarP(&english, "english", "e", false, "使用英文页面（默认德文）")
	pf.BoolVar(&verbose, "verbose", false, "输出 info 级日志（$ACMENSA_LOG 优先）")

	menuCmd := newMenuCmd(s)
	root.AddCommand(
		menuCmd,
		newExportCmd(s),
		newSchemaCmd(),
		newMensenCmd(s),
		newVersionCmd(),
	)

	// 无子命令时等同于 menu：共享同一组 flag 变量。
	root.Flags().AddFlagSet(menuCmd.Flags())
	root.RunE = func(cmd *cobra.Command, args []string) error {
		menuCmd.SetContext(cmd.Context())
		return menuCmd.RunE(menuCmd, args)
	}
	return root
}
