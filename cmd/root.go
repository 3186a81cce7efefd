package cmd

import (
	"fmt"
	"os"

	"media-offload/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "media-offload",
	Short: "Media Offload Service",
	Long: `Media Offload keeps CMS media in sync with an S3 compatible bucket
(Cloudflare R2, MinIO). It pushes uploads to the bucket, rewrites content
to the bucket URL and can bring everything back to local delivery.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with the development config gives readable CLI errors.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
