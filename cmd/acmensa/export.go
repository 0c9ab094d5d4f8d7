package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/John-Robertt/acmensa/internal/export"
)

func newExportCmd(s *session) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "把本周与下周全部营业日导出为 JSON（每天一个 YYYYMMDD.json）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ui *progressUI
			if w, ok := pickProgressWriter(cmd, s.deps); ok {
				ui = newProgressUI(w, s.deps.now)
				ui.OnStart(s.eff.Mensa, output)
			}

			svc, err := s.service()
			if err != nil {
				return err
			}
			this, next, err := svc.FetchWeeks(cmd.Context())
			if err != nil {
				return err
			}

			var obs export.Observer
			if ui != nil {
				obs = ui
			}
			paths, err := export.WriteWeeksWithObserver(output, s.dates.ExportDates(), this, next, obs)
			if err != nil {
				return err
			}
			s.log.Info("导出完成", zap.String("dir", output), zap.Int("files", len(paths)))
			if ui != nil {
				ui.OnDone()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", ".", "输出目录（不存在则创建）")
	return cmd
}

// pickProgressWriter 只在交互终端输出进度；优先 stderr，避免污染 stdout。
func pickProgressWriter(cmd *cobra.Command, d deps) (io.Writer, bool) {
	if w := cmd.ErrOrStderr(); d.isTTY(w) {
		return w, true
	}
	if w := cmd.OutOrStdout(); d.isTTY(w) {
		return w, true
	}
	return nil, false
}
