package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

const app = "screen"

// Actual version can be specified in build command.
var version = "unknown"

type options struct {
	sendEmail bool
	output    string
	cutoff    float64
	skills    string
	education string
	upload    bool
	debug     bool
	json      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     app + " [flags] <file.pdf|dir>...",
		Short:   "screen resumes against the skills and education profile and write a hiring report",
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			applyFlags(cmd, cfg, opts)

			logger, err := config.NewLogger(cfg.Log)
			if err != nil {
				return fmt.Errorf("creating a logger: %w", err)
			}
			defer logger.Sync()

			return run(cmd.Context(), cfg, opts, args, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().BoolVar(&opts.sendEmail, "send-email", false, "send invitation or rejection emails (default from EMAIL_ENABLED)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", services.ReportFilename, "path of the CSV report")
	cmd.Flags().Float64Var(&opts.cutoff, "cutoff", config.DefaultCutoff, "minimum score for selection (default from SCREEN_CUTOFF)")
	cmd.Flags().StringVar(&opts.skills, "skills", "", "comma separated skill terms (default from SCREEN_SKILLS)")
	cmd.Flags().StringVar(&opts.education, "education", "", "comma separated education terms (default from SCREEN_EDUCATION)")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "upload the report to REPORT_S3_BUCKET")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	cmd.Flags().BoolVarP(&opts.json, "json", "j", false, "json format for logging")

	return cmd
}

// applyFlags lets explicitly set flags override the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options) {
	flags := cmd.Flags()
	if flags.Changed("send-email") {
		cfg.Mail.Enabled = opts.sendEmail
	}
	if flags.Changed("cutoff") {
		cfg.Profile.Cutoff = opts.cutoff
	}
	if flags.Changed("skills") {
		cfg.Profile.Skills = config.SplitList(opts.skills)
	}
	if flags.Changed("education") {
		cfg.Profile.Education = config.SplitList(opts.education)
	}
	if flags.Changed("debug") {
		cfg.Log.Debug = opts.debug
	}
	if flags.Changed("json") {
		cfg.Log.JSON = opts.json
	}
}

func run(ctx context.Context, cfg *config.Config, opts *options, paths []string, out io.Writer, logger *zap.Logger) error {
	documents, err := services.NewUploadService(cfg.Storage.MaxFileSize).ReadFiles(paths)
	if err != nil {
		return err
	}
	if len(documents) == 0 {
		fmt.Fprintln(out, "Waiting for PDF uploads...")
		return nil
	}

	var notifier services.Notifier
	if cfg.Mail.Enabled {
		notifier, err = services.NewSMTPNotifier(cfg.Mail, logger)
		if err != nil {
			return err
		}
	}

	profile := models.ScoringProfile{
		Skills:    cfg.Profile.Skills,
		Education: cfg.Profile.Education,
		Cutoff:    cfg.Profile.Cutoff,
	}
	screener := services.NewScreenerService(profile, services.NewPDFParserService(), notifier, logger)

	records := screener.Run(ctx, documents, services.RunOptions{
		SendEmail: cfg.Mail.Enabled,
		OnRecord: func(done, total int, record models.CandidateRecord) {
			fmt.Fprintf(out, "[%d/%d] %-40s %6.2f %-8s %s\n",
				done, total, record.Filename, record.Score, record.Status, record.NotificationOutcome)
		},
	})

	if err := writeReport(opts.output, records); err != nil {
		return err
	}

	summary := services.Summarize(records)
	fmt.Fprintf(out, "Processing complete: %d screened, %d selected, %d rejected (cutoff %s%%)\n",
		summary.Total, summary.Selected, summary.Rejected, models.FormatScore(profile.Cutoff))
	fmt.Fprintf(out, "Report written to %s\n", opts.output)

	if opts.upload {
		if cfg.Report.Bucket == "" {
			return fmt.Errorf("--upload requires REPORT_S3_BUCKET")
		}
		sink, err := services.NewS3ReportSink(ctx, cfg.Report.Bucket, cfg.Report.Prefix, cfg.Report.Region, logger)
		if err != nil {
			return err
		}
		location, err := sink.Upload(ctx, uuid.NewString(), records)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Report uploaded to %s\n", location)
	}

	return nil
}

func writeReport(path string, records []models.CandidateRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := services.WriteCSV(f, records); err != nil {
		return err
	}
	return f.Close()
}
