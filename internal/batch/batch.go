package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vk/kujuconsist/internal/ctxlog"
	"github.com/vk/kujuconsist/internal/train"
)

// Loader loads one consist into t and reports success.
type Loader interface {
	LoadTrain(ctx context.Context, path string, t *train.Train) bool
}

// Result is the outcome of loading one consist.
type Result struct {
	Path  string
	Train *train.Train
	OK    bool
	// Err is set when the load was skipped, never for a failed load.
	Err error
}

type job struct {
	index int
	path  string
}

// Run loads every path with the given number of workers. A cancelled ctx
// skips the paths not yet started.
func Run(ctx context.Context, l Loader, paths []string, workers int) []Result {
	logger := ctxlog.FromContext(ctx)
	if workers <= 0 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}
	logger.Debug("Batch load started.", "consists", len(paths), "workers", workers)

	results := make([]Result, len(paths))
	readyChan := make(chan job)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			worker(ctx, l, readyChan, results, workerID)
		}(i)
	}

	for i, p := range paths {
		readyChan <- job{index: i, path: p}
	}
	close(readyChan)
	wg.Wait()

	logger.Debug("Batch load finished.", "consists", len(paths))
	return results
}

// worker is the processing loop for a single concurrent worker.
func worker(ctx context.Context, l Loader, readyChan <-chan job, results []Result, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for j := range readyChan {
		res := Result{Path: j.path}
		if err := ctx.Err(); err != nil {
			res.Err = err
			results[j.index] = res
			continue
		}

		logger.Debug("Worker picked up consist.", "workerID", workerID, "consist", j.path)
		res.Train = train.New()
		res.OK = l.LoadTrain(ctx, j.path, res.Train)
		results[j.index] = res
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// Consists lists the .con files directly inside dir, sorted by name.
func Consists(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".con") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
