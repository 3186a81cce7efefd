package cmd

import (
	"context"

	"media-offload/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var probeFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check bucket, catalog schema and upload directory",
	Long:  `Checks that the bucket exists, the CMS tables carry the required columns and the upload directory is writable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd.Context())
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&probeFlag, "probe", false, "Write and read back a probe object in the bucket")
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrityChecks(ctx context.Context) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	logg := rt.logger
	defer logg.Sync()

	svc := integrity.NewService(rt.store, rt.cfg.Storage.Bucket, rt.catalog, rt.cfg.Offload.UploadDir, logg)
	healthy := true

	logg.Info("Checking bucket...")
	if report, err := svc.CheckBucket(ctx, probeFlag); err != nil {
		healthy = false
		logg.Error("Bucket check failed", zap.Error(err))
	} else if report.Status != "ok" {
		healthy = false
		logg.Warn("Bucket problem detected", zap.String("bucket", report.Bucket), zap.String("error", report.Error))
	} else {
		logg.Info("Bucket is reachable.", zap.Bool("write_probe", report.Writable))
	}

	logg.Info("Checking catalog schema...")
	if report, err := svc.CheckCatalog(); err != nil {
		healthy = false
		logg.Error("Catalog check failed", zap.Error(err))
	} else if !report.Matched {
		healthy = false
		for table, t := range report.Tables {
			if t.Status != "ok" {
				logg.Warn("Catalog table incomplete", zap.String("table", table), zap.Strings("missing", t.MissingColumns))
			}
		}
	} else {
		logg.Info("Catalog schema is intact.")
	}

	logg.Info("Checking upload directory...")
	if report, err := svc.CheckUploads(); err != nil {
		healthy = false
		logg.Error("Upload directory check failed", zap.Error(err))
	} else if report.Status != "ok" {
		healthy = false
		logg.Warn("Upload directory problem detected", zap.String("path", report.Path), zap.String("error", report.Error))
	} else {
		logg.Info("Upload directory is writable.")
	}

	if !healthy {
		logg.Warn("Integrity checks reported problems")
	}
	return nil
}
