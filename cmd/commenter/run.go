package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "run <url>",
		Short: "기사 URL 하나를 처리하고 결과를 JSON 파일로 저장한다",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			orch, err := buildOrchestrator(ctx, cfg)
			if err != nil {
				return err
			}

			result, path, err := orch.RunAndExport(ctx, args[0], output)
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("pipeline failed: %s", result.Error)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result.Comments); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "결과 파일 이름 (기본: news_comments_YYYYMMDD_HHMMSS_<실행 ID 앞 8자>.json)")
	return cmd
}
