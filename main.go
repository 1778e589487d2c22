package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ccfrost/camnotion/internal/config"
	"github.com/ccfrost/camnotion/internal/imgbb"
	"github.com/ccfrost/camnotion/internal/lib"
	"github.com/ccfrost/camnotion/internal/notion"
	"github.com/spf13/cobra"
)

const camnotion = "camnotion"

func main() {
	var configPath string
	var cfg config.CamnotionConfig

	rootCmd := cobra.Command{
		Use:   camnotion,
		Short: "Record photo metadata in a Notion database",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadConfig(configPath, config.DefaultEnvFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	checkCmd := cobra.Command{
		Use:   "check",
		Short: "Check the Notion connection and show the database properties",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			sample, err := cmd.Flags().GetInt("sample")
			if err != nil {
				fmt.Fprintln(os.Stderr, "error: invalid sample flag:", err)
				os.Exit(1)
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintln(os.Stderr, "error: invalid config:", err)
				os.Exit(1)
			}

			db, err := newNotionClient(ctx, cfg)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
			if err := lib.CheckConnection(ctx, db, cfg.Notion.DatabaseID, sample, os.Stdout); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
		},
	}
	checkCmd.Flags().IntP("sample", "n", 1, "Number of pages to print")
	rootCmd.AddCommand(&checkCmd)

	uploadCmd := cobra.Command{
		Use:   "upload DIR",
		Short: "Create a database page for every photo in DIR",
		Long: `Create a database page for every photo directly in DIR.
Each page carries the photo's EXIF metadata. When an imgbb API key is
configured, the photo is uploaded there and attached to the page.
Photos that cannot be read are still recorded under their filename.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				fmt.Fprintln(os.Stderr, "error: invalid dry-run flag:", err)
				os.Exit(1)
			}
			noImageHost, err := cmd.Flags().GetBool("no-image-host")
			if err != nil {
				fmt.Fprintln(os.Stderr, "error: invalid no-image-host flag:", err)
				os.Exit(1)
			}
			progress, err := cmd.Flags().GetBool("progress")
			if err != nil {
				fmt.Fprintln(os.Stderr, "error: invalid progress flag:", err)
				os.Exit(1)
			}

			var db lib.Database
			var host lib.ImageHost
			if !dryRun {
				notionClient, err := newNotionClient(ctx, cfg)
				if err != nil {
					fmt.Fprintln(os.Stderr, "error:", err)
					os.Exit(1)
				}
				db = notionClient
				if cfg.HasImageHost() && !noImageHost {
					host = imgbb.NewClient(cfg.ImgBB.APIKey,
						imgbb.WithUploadURL(cfg.ImgBB.UploadURL),
						imgbb.WithTimeout(cfg.ImgBB.Timeout),
						imgbb.WithExpiration(cfg.ImgBB.Expiration))
				}
			}

			opts := lib.UploadOptions{
				Dir:      args[0],
				DryRun:   dryRun,
				Progress: progress,
				Out:      os.Stdout,
			}
			if _, err := lib.UploadPhotos(ctx, cfg, opts, db, host); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
		},
	}
	uploadCmd.Flags().Bool("dry-run", false, "Read metadata only, without contacting Notion or imgbb")
	uploadCmd.Flags().Bool("no-image-host", false, "Do not upload images, even if an imgbb API key is set")
	uploadCmd.Flags().BoolP("progress", "p", false, "Show a progress bar instead of per-photo lines")
	rootCmd.AddCommand(&uploadCmd)

	exifCmd := cobra.Command{
		Use:   "exif FILE...",
		Short: "Print the metadata of photos as JSON",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := lib.ExtractFiles(args, os.Stdout); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
		},
	}
	rootCmd.AddCommand(&exifCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newNotionClient(ctx context.Context, cfg config.CamnotionConfig) (*notion.Client, error) {
	return notion.NewClient(ctx, cfg.Notion.Token,
		notion.WithBaseURL(cfg.Notion.BaseURL),
		notion.WithVersion(cfg.Notion.Version),
		notion.WithTimeout(cfg.Notion.Timeout))
}
