package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/acmensa/internal/export"
)

// skipSession 让不依赖配置的命令跳过根命令的 PersistentPreRunE。
func skipSession(*cobra.Command, []string) {}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:              "schema",
		Short:            "输出导出文件的 JSON schema",
		Args:             cobra.NoArgs,
		PersistentPreRun: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := export.DaySchemaJSON()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}

func newMensenCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "mensen",
		Short: "列出可选的食堂（* 为当前生效的食堂）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, m := range s.catalog.Mensen {
				mark := " "
				if m.Key == s.eff.Mensa {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s %s\t%s\n", mark, m.Key, m.Name)
			}
			return tw.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:              "version",
		Short:            "输出版本号",
		Args:             cobra.NoArgs,
		PersistentPreRun: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "acmensa version %s\n", version)
			return err
		},
	}
}
