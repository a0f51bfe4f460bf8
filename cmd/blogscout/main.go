package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"BlogScout/internal/app"
	"BlogScout/internal/config"
	"BlogScout/internal/domain"
	"BlogScout/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to $BLOGSCOUT_CONFIG)")
	dryRun := flag.Bool("dry-run", false, "score articles and print the kept list without posting to Slack")
	flag.Parse()

	envErr := loadDotEnv(".env")

	cfg, err := config.Load(*configPath)
	if err != nil {
		if envErr != nil {
			fmt.Fprintln(os.Stderr, "ignoring .env file:", envErr)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging.Level)
	if envErr != nil {
		logger.Warn("ignoring .env file", "error", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger, app.Options{DryRun: *dryRun})
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	report, err := application.Run(ctx)
	if err != nil {
		logger.Error("application stopped", "error", err)
		stop()
		_ = application.Close()
		os.Exit(1)
	}

	if *dryRun {
		printKept(os.Stdout, report.Kept)
	}
}

// loadDotEnv reads optional dotenv files; real environment variables take
// precedence. A missing file is not an error.
func loadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func printKept(w io.Writer, kept []domain.KeptArticle) {
	if len(kept) == 0 {
		fmt.Fprintln(w, "No articles passed the threshold.")
		return
	}
	for _, art := range kept {
		fmt.Fprintf(w, "%d\t%s\t%s\n\t%s\n\tKeywords: %s\n",
			art.RelevanceScore, art.PublishedAt.Format(domain.DateLayout), art.URL, art.Summary, art.Keywords)
	}
}
