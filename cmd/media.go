package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"media-offload/core/reconcile"
	"media-offload/feature/media"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	yesConfirm bool
	urlSize    string
	urlWidth   int
	urlHeight  int
)

// mediaCmd is the parent command for all offload operations.
var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Offload, revert and inspect CMS media",
	Long: `Move CMS media between the local upload directory and the bucket.

Examples:
  # Offload every local attachment
  media migrate

  # Delete local copies of offloaded attachments (asks for confirmation)
  media purge-local

  # Bring everything back to local delivery without prompting
  media revert --yes

  # Upload attachments whose bucket copy went missing
  media reupload

  # Show drift between catalog, disk and bucket
  media status`,
}

func bulkCommand(op reconcile.Operation, short string, destructive bool) *cobra.Command {
	return &cobra.Command{
		Use:   string(op),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, l, err := mediaService()
			if err != nil {
				return err
			}
			defer l.Sync()

			if destructive && !confirmDestructiveAction() {
				l.Warn("Operation cancelled by user. No changes were made.")
				return nil
			}

			report, err := svc.RunBulk(cmd.Context(), op)
			if report != nil {
				printBatchReport(l, report)
			}
			if err != nil {
				return err
			}
			if report.Partial() {
				l.Warn("Operation finished with failures", zap.String("operation", string(op)))
			}
			return nil
		},
	}
}

var offloadCmd = &cobra.Command{
	Use:   "offload <id>",
	Short: "Offload a single attachment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid attachment id %q", args[0])
		}
		svc, l, err := mediaService()
		if err != nil {
			return err
		}
		defer l.Sync()

		res, err := svc.Offload(cmd.Context(), id)
		if err != nil {
			return err
		}
		l.Info("Attachment offloaded",
			zap.Uint64("id", id),
			zap.String("url", res.URL),
			zap.Int("files", res.Transferred),
			zap.Strings("failed", res.FailedKeys),
			zap.Bool("purged", res.Purged))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report drift between catalog, local files and bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := mediaService()
		if err != nil {
			return err
		}
		defer l.Sync()

		report, err := svc.Status(cmd.Context())
		if err != nil {
			return err
		}

		s := report.Summary
		fmt.Println("\n=== Media Offload Status ===")
		fmt.Printf("Total: %d\n", s.Total)
		fmt.Printf("Offloaded: %d\n", s.Offloaded)
		fmt.Printf("Local Only: %d\n", s.LocalOnly)
		fmt.Printf("Missing Remote: %d\n", s.MissingRemote)
		fmt.Printf("Missing Local: %d\n", s.MissingLocal)
		fmt.Printf("Unrecorded Remote: %d\n", s.Unrecorded)
		fmt.Printf("Orphaned Objects: %d\n", s.Orphaned)

		for _, r := range report.Results {
			if len(r.Drift) > 0 {
				l.Warn("Drift", zap.Uint64("id", r.ID), zap.String("key", r.Key), zap.Strings("drift", r.Drift))
			}
		}
		return nil
	},
}

var urlCmd = &cobra.Command{
	Use:   "url <id>",
	Short: "Print the delivery URL of an attachment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid attachment id %q", args[0])
		}
		svc, l, err := mediaService()
		if err != nil {
			return err
		}
		defer l.Sync()

		report, err := svc.ResolveURL(cmd.Context(), id, urlSize, urlWidth, urlHeight)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	mediaCmd.AddCommand(
		bulkCommand(reconcile.OpMigrate, "Offload every local attachment", false),
		bulkCommand(reconcile.OpPurgeLocal, "Delete local copies of offloaded attachments", true),
		bulkCommand(reconcile.OpRevert, "Return every offloaded attachment to local delivery", true),
		bulkCommand(reconcile.OpReupload, "Upload attachments missing from the bucket", false),
		offloadCmd,
		statusCmd,
		urlCmd,
	)

	mediaCmd.PersistentFlags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	urlCmd.Flags().StringVar(&urlSize, "size", "", "Size name (thumbnail, medium, full, ...)")
	urlCmd.Flags().IntVar(&urlWidth, "w", 0, "Width of the rendition")
	urlCmd.Flags().IntVar(&urlHeight, "h", 0, "Height of the rendition")

	RootCmd.AddCommand(mediaCmd)
}

// mediaService bootstraps the runtime and wraps it in the media service.
func mediaService() (*media.Service, *zap.Logger, error) {
	rt, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}
	if _, err := rt.requireReconciler(); err != nil {
		return nil, nil, err
	}
	return media.NewService(rt.reconciler, rt.unavailable, rt.logger), rt.logger, nil
}

// printBatchReport prints a bulk run summary using logger.
func printBatchReport(l *zap.Logger, report *reconcile.BatchReport) {
	l.Info("Batch report",
		zap.String("operation", string(report.Operation)),
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("file_failures", report.FileFailures),
		zap.Int("rewrite_failures", report.RewriteFailures),
	)

	// Show a sample of failures (max 5)
	shown := 0
	for _, res := range report.Results {
		if res.Outcome != reconcile.OutcomeFailed && len(res.FailedKeys) == 0 && len(res.FailedRewrites) == 0 {
			continue
		}
		if shown == 5 {
			l.Info("Additional failures not shown")
			break
		}
		l.Warn("Failure",
			zap.Uint64("id", res.AssetID),
			zap.String("outcome", string(res.Outcome)),
			zap.String("reason", res.Reason),
			zap.Strings("failed_keys", res.FailedKeys),
			zap.Strings("failed_rewrites", res.FailedRewrites))
		shown++
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
