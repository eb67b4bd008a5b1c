// Package main is a command line front end for bulk campaigns. It reads a
// recipient list from a file (one address per line, blanks and # comments
// ignored), dispatches the campaign synchronously, and prints the summary
// as JSON on stdout.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"hosteldesk/internal/config"
	"hosteldesk/internal/dispatch"
	"hosteldesk/internal/external"
	"hosteldesk/internal/types"
)

type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

var _ types.Logger = (*slogAdapter)(nil)

func main() {
	var (
		recipientsPath = flag.String("recipients", "", "path to recipient list, one address per line (required)")
		subject        = flag.String("subject", "", "message subject (required)")
		bodyText       = flag.String("body", "", "plain text body (required unless -body-file is set)")
		bodyFile       = flag.String("body-file", "", "read the plain text body from this file")
		htmlFile       = flag.String("html-file", "", "optional HTML body file")
		batchSize      = flag.Int("batch-size", dispatch.DefaultBatchSize, "recipients per batch")
		delay          = flag.Duration("delay", dispatch.DefaultBaseDelay, "pause between batches")
		retries        = flag.Int("retries", dispatch.DefaultMaxRetries, "retries per recipient after the first attempt")
		jitter         = flag.Duration("jitter", dispatch.DefaultJitter, "random spread applied to the batch pause")
		dryRun         = flag.Bool("dry-run", false, "log sends without contacting any provider")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	typedLogger := &slogAdapter{logger: logger}

	if *recipientsPath == "" || *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	body := *bodyText
	if *bodyFile != "" {
		data, err := os.ReadFile(*bodyFile)
		if err != nil {
			logger.Error("failed to read body file", "path", *bodyFile, "error", err)
			os.Exit(1)
		}
		body = string(data)
	}
	if body == "" {
		flag.Usage()
		os.Exit(2)
	}

	var html string
	if *htmlFile != "" {
		data, err := os.ReadFile(*htmlFile)
		if err != nil {
			logger.Error("failed to read html file", "path", *htmlFile, "error", err)
			os.Exit(1)
		}
		html = string(data)
	}

	recipients, err := readRecipients(*recipientsPath)
	if err != nil {
		logger.Error("failed to read recipient list", "path", *recipientsPath, "error", err)
		os.Exit(1)
	}

	var provider external.MailProvider
	if *dryRun {
		provider = external.NewStubMailProvider(typedLogger)
	} else {
		cfg, err := config.LoadConfig()
		if err != nil {
			logger.Error("failed to load configuration", "error", err)
			os.Exit(1)
		}
		provider = external.NewProviderFromConfig(cfg.Mail, typedLogger)
	}

	dispatcher := dispatch.NewDispatcher(provider, typedLogger)
	summary := dispatcher.SendBulk(context.Background(), recipients, types.Message{
		Subject:  *subject,
		BodyText: body,
		BodyHTML: html,
	}, dispatch.BulkOptions{
		BatchSize:  *batchSize,
		BaseDelay:  *delay,
		MaxRetries: *retries,
		Jitter:     *jitter,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		fmt.Fprintln(os.Stderr, "failed to encode summary:", err)
		os.Exit(1)
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// readRecipients loads the raw recipient list. Normalization and
// deduplication happen inside the dispatcher, not here.
func readRecipients(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var recipients []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		recipients = append(recipients, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recipients, nil
}
