package driver

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tabexcli/tabex/internal/syntax"
	"github.com/tabexcli/tabex/pkg/engine"
	"github.com/tabexcli/tabex/pkg/header"
	"github.com/tabexcli/tabex/pkg/value"
)

// queueDepth bounds how many rows may be read ahead of the slowest worker,
// keeping memory use flat regardless of input size.
const queueDepth = 64

// resultColumn names the cell ModeMap appends to each row.
const resultColumn = "result"

type rowJob struct {
	index  int
	record []string
}

type rowResult struct {
	index  int
	record []string
	keep   bool
}

// Run parses and concretizes opts.Expression against the input's header,
// then evaluates it against every row under the configured parallelism and
// error policy, writing survivors to opts.Output in input order.
func Run(ctx context.Context, opts Options) error {
	in, closeIn, err := openInput(opts.Input)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(opts.Output)
	if err != nil {
		return err
	}
	defer closeOut()

	reader := csv.NewReader(in)
	if opts.Delimiter != 0 {
		reader.Comma = rune(opts.Delimiter)
	}
	reader.FieldsPerRecord = -1

	headers, pending, err := observeHeader(reader, opts.NoHeaders)
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	node, err := syntax.Parse(opts.Expression)
	if err != nil {
		return fmt.Errorf("parsing expression: %w", err)
	}
	expr, err := engine.Concretize(node, headers)
	if err != nil {
		return fmt.Errorf("concretizing expression: %w", err)
	}

	writer := csv.NewWriter(out)
	if opts.Delimiter != 0 {
		writer.Comma = rune(opts.Delimiter)
	}
	if !opts.NoHeaders && opts.Mode != ModeForeach {
		if err := writer.Write(outputHeader(headers, opts.Mode)); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := pump(ctx, reader, writer, pending, expr, headers, opts); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func pump(ctx context.Context, reader *csv.Reader, writer *csv.Writer, pending []string, expr engine.Expr, headers header.Index, opts Options) error {
	jobs := make(chan rowJob, queueDepth)
	results := make(chan rowResult, queueDepth)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return produceRows(gctx, reader, pending, jobs)
	})

	workerGroup, workerCtx := errgroup.WithContext(gctx)
	engCtx := engine.NewContext(headers)
	for i := 0; i < opts.Parallelization.Workers(); i++ {
		workerGroup.Go(func() error {
			return evaluateRows(workerCtx, expr, engCtx, opts, jobs, results)
		})
	}
	g.Go(func() error {
		err := workerGroup.Wait()
		close(results)
		return err
	})

	g.Go(func() error {
		return writeOrdered(gctx, writer, results)
	})

	return g.Wait()
}

func produceRows(ctx context.Context, reader *csv.Reader, pending []string, jobs chan<- rowJob) error {
	defer close(jobs)

	index := 0
	if pending != nil {
		if err := sendJob(ctx, jobs, rowJob{index: index, record: pending}); err != nil {
			return err
		}
		index++
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading row %d: %w", index, err)
		}
		if err := sendJob(ctx, jobs, rowJob{index: index, record: record}); err != nil {
			return err
		}
		index++
	}
}

func sendJob(ctx context.Context, jobs chan<- rowJob, job rowJob) error {
	select {
	case jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func evaluateRows(ctx context.Context, expr engine.Expr, engCtx *engine.Context, opts Options, jobs <-chan rowJob, results chan<- rowResult) error {
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return nil
			}
			res, err := evaluateRow(job, expr, engCtx, opts)
			if err != nil {
				return err
			}
			select {
			case results <- res:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func evaluateRow(job rowJob, expr engine.Expr, engCtx *engine.Context, opts Options) (rowResult, error) {
	rowIndex := job.index
	v, evalErr := engine.Evaluate(expr, &rowIndex, job.record, engCtx, nil)
	if evalErr != nil {
		switch opts.ErrorPolicy {
		case PolicyPanic:
			return rowResult{}, fmt.Errorf("row %d: %w", job.index, evalErr)
		case PolicyLog:
			logrus.WithField("row", job.index).Warn(evalErr.Error())
			v = value.None()
		default: // PolicyIgnore
			v = value.None()
		}
	}

	res := rowResult{index: job.index}
	switch opts.Mode {
	case ModeMap:
		res.record = appendCell(job.record, v.String())
		res.keep = true
	case ModeFilter:
		res.record = job.record
		res.keep = evalErr == nil && v.IsTruthy()
	default: // ModeForeach
		// The driver never writes output rows in foreach mode — only the
		// error policy's handling of a failed evaluation is observable.
		res.keep = false
	}
	return res, nil
}

func appendCell(record []string, cell string) []string {
	out := make([]string, len(record)+1)
	copy(out, record)
	out[len(record)] = cell
	return out
}

func writeOrdered(ctx context.Context, writer *csv.Writer, results <-chan rowResult) error {
	pending := make(map[int]rowResult)
	next := 0

	for {
		select {
		case res, ok := <-results:
			if !ok {
				return nil
			}
			pending[res.index] = res
			for {
				r, found := pending[next]
				if !found {
					break
				}
				delete(pending, next)
				next++
				if r.keep {
					if err := writer.Write(r.record); err != nil {
						return err
					}
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func observeHeader(reader *csv.Reader, noHeaders bool) (header.Index, []string, error) {
	first, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return header.Index{}, nil, errors.New("empty input: no header row")
		}
		return header.Index{}, nil, err
	}
	if noHeaders {
		return header.NewSynthetic(len(first)), first, nil
	}
	return header.New(first), nil, nil
}

func outputHeader(headers header.Index, mode Mode) []string {
	names := append([]string(nil), headers.Names()...)
	if mode == ModeMap {
		names = append(names, resultColumn)
	}
	return names
}

func openInput(path *string) (io.Reader, func(), error) {
	if path == nil {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(*path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input %q: %w", *path, err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path *string) (io.Writer, func(), error) {
	if path == nil {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(*path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening output %q: %w", *path, err)
	}
	return f, func() { f.Close() }, nil
}
