package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"scrub/internal/config"
	"scrub/internal/datasource"
	"scrub/internal/datasource/file"
	"scrub/internal/datasource/httpds"
	"scrub/internal/engine"
	"scrub/internal/metrics"
	"scrub/internal/parser/csv"
	"scrub/internal/storage"
)

// indexLabel names the stable-row-index column on audit tables so operators
// can locate the offending line in the source batch.
const indexLabel = "file_index"

// buildSources resolves the configured source into one Source per batch.
func buildSources(cfg config.Config) ([]datasource.Source, error) {
	switch cfg.Source.Kind {
	case "file":
		locals, err := file.Glob(cfg.Source.File.Glob)
		if err != nil {
			return nil, err
		}
		srcs := make([]datasource.Source, 0, len(locals))
		for _, l := range locals {
			srcs = append(srcs, l)
		}
		return srcs, nil

	case "http":
		urls := append([]string(nil), cfg.Source.HTTP.URLs...)
		if cfg.Source.HTTP.URLFile != "" {
			listed, err := file.ReadList(cfg.Source.HTTP.URLFile)
			if err != nil {
				return nil, fmt.Errorf("read url list: %w", err)
			}
			urls = append(urls, listed...)
		}
		client := httpds.NewClient(httpds.Config{
			Timeout:            time.Duration(cfg.Source.HTTP.TimeoutSeconds) * time.Second,
			MaxRetries:         cfg.Source.HTTP.MaxRetries,
			InsecureSkipVerify: cfg.Source.HTTP.Insecure,
		})
		srcs := make([]datasource.Source, 0, len(urls))
		for _, u := range urls {
			srcs = append(srcs, httpds.NewRemote(client, u))
		}
		return srcs, nil

	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// run processes every batch of the job, one worker per batch.
func run(ctx context.Context, cfg config.Config, verbose bool) error {
	srcs, err := buildSources(cfg)
	if err != nil {
		return err
	}
	if len(srcs) == 0 {
		log.Printf("no batches matched the source configuration; nothing to do")
		return nil
	}

	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Output.Kind, DSN: cfg.Output.DSN})
	if err != nil {
		return fmt.Errorf("open %s output: %w", cfg.Output.Kind, err)
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			log.Printf("close output: %v", cerr)
		}
	}()

	prefix := cfg.Output.Prefix
	if prefix == "" {
		prefix = cfg.Job
	}

	workers := cfg.Runtime.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	runner := newRunner()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, src := range srcs {
		src := src
		g.Go(func() error {
			start := time.Now()
			err := processBatch(ctx, repo, runner, src, cfg.Reader, prefix, cfg.Job, verbose)
			metrics.RecordBatch(cfg.Job, src.Name(), err, time.Since(start))
			if err != nil {
				return fmt.Errorf("batch %s: %w", src.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// processBatch runs one batch end to end: fetch, parse, clean, and store the
// clean table plus both audit tables.
func processBatch(
	ctx context.Context,
	repo storage.Repository,
	runner *engine.Runner,
	src datasource.Source,
	reader config.Reader,
	prefix, job string,
	verbose bool,
) error {
	rc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	raw, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return fmt.Errorf("read batch: %w", err)
	}

	// The batch id ties audit rows back to the exact bytes that produced
	// them: the batch name plus a content fingerprint.
	batchID := fmt.Sprintf("%s_%016x", src.Name(), xxh3.Hash(raw))

	comma := ','
	if reader.Comma != "" {
		comma = []rune(reader.Comma)[0]
	}
	tbl, err := csv.ReadTable(bytes.NewReader(raw), csv.Options{
		Comma:            comma,
		NormalizeHeaders: true,
		CollapseSpace:    true,
		HeaderMap:        reader.HeaderMap,
		LazyQuotes:       reader.LazyQuotes,
	})
	if err != nil {
		return err
	}
	tbl, err = tbl.Project(keepColumns)
	if err != nil {
		return fmt.Errorf("project input columns: %w", err)
	}

	res, err := runner.Run(tbl)
	if err != nil {
		return err
	}
	hardAudit, softAudit, err := engine.BuildAudits(tbl, res.Filtered, res.HardLedger, res.SoftLedger, batchID)
	if err != nil {
		return err
	}
	clean, err := res.CleanTable()
	if err != nil {
		return err
	}

	name := src.Name()
	if err := repo.StoreTable(ctx, prefix+"_"+name+"_clean", clean, ""); err != nil {
		return fmt.Errorf("store clean table: %w", err)
	}
	if err := repo.StoreTable(ctx, prefix+"_"+name+"_hard_rejects", hardAudit, indexLabel); err != nil {
		return fmt.Errorf("store hard rejects: %w", err)
	}
	if err := repo.StoreTable(ctx, prefix+"_"+name+"_soft_rejects", softAudit, indexLabel); err != nil {
		return fmt.Errorf("store soft rejects: %w", err)
	}

	metrics.RecordRows(job, "input", int64(tbl.Len()))
	metrics.RecordRows(job, "clean", int64(clean.Len()))
	metrics.RecordRows(job, "hard_reject", int64(hardAudit.Len()))
	metrics.RecordRows(job, "soft_reject", int64(softAudit.Len()))
	recordLedger(job, "hard", res.HardLedger)
	recordLedger(job, "soft", res.SoftLedger)

	hard := res.HardLedger.Summarize()
	soft := res.SoftLedger.Summarize()
	log.Printf("batch %s: rows in=%d clean=%d hard_rejects=%d soft_rejects=%d",
		name, tbl.Len(), clean.Len(), hard.UnionCount, soft.UnionCount)
	if verbose {
		for _, fc := range hard.PerField {
			log.Printf("batch %s: hard %s rejected %d", name, fc.Field, fc.Count)
		}
		for _, fc := range soft.PerField {
			log.Printf("batch %s: soft %s rejected %d", name, fc.Field, fc.Count)
		}
	}
	return nil
}

func recordLedger(job, pass string, led *engine.Ledger) {
	for _, fc := range led.Summarize().PerField {
		metrics.RecordFieldRejects(job, pass, fc.Field, int64(fc.Count))
	}
}
