package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"news-comment/feeder"
)

func newFeedCmd(flags *rootFlags) *cobra.Command {
	var (
		rssURL string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "RSS 피드의 기사마다 파이프라인을 한 번씩 실행한다",
		Args:  cobra.NoArgs,
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

			items, err := feeder.FetchRssFeeds(ctx, rssURL, limit)
			if err != nil {
				return fmt.Errorf("fetch feed %s: %w", rssURL, err)
			}

			outcomes := feeder.RunBatch(ctx, orch, items)
			succeeded := 0
			for _, o := range outcomes {
				if o.Succeeded() {
					succeeded++
					fmt.Fprintf(cmd.OutOrStdout(), "ok    %s -> %s\n", o.Item.Link, o.Path)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "fail  %s\n", o.Item.Link)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "done: %d/%d succeeded\n", succeeded, len(items))
			return nil
		},
	}
	cmd.Flags().StringVar(&rssURL, "rss", "", "RSS/Atom 피드 URL")
	cmd.Flags().IntVar(&limit, "limit", 5, "처리할 최대 기사 수 (0 이면 전체)")
	_ = cmd.MarkFlagRequired("rss")
	return cmd
}
