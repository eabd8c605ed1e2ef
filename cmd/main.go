package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/projectreview-backend/internal/app"
	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/ingestion/extractor"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

var (
	maxSlides int

	rootCmd = &cobra.Command{
		Use:           "projectreview",
		Short:         "Voice-driven project review backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the review API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	parseCmd = &cobra.Command{
		Use:   "parse [file]",
		Short: "Extract slide text from a PDF or PPTX deck",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
)

func init() {
	parseCmd.Flags().IntVar(&maxSlides, "max-slides", extractor.DefaultConfig().MaxSlides, "maximum slides to read")
	rootCmd.AddCommand(serveCmd, parseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		a.Log.Error("Server failed", "error", err)
		return err
	}
	a.Log.Info("Server stopped")
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg := extractor.DefaultConfig()
	cfg.MaxSlides = maxSlides

	x := extractor.New(logger.Nop(), cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	parsed, err := x.Parse(ctx, review.Upload{Filename: filepath.Base(path), Data: data})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, slide := range parsed.Slides {
		fmt.Fprintf(out, "--- slide %d ---\n%s\n", i+1, slide)
	}
	return nil
}
