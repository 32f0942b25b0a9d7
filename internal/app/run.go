package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/vk/kujuconsist/internal/batch"
	"github.com/vk/kujuconsist/internal/ctxlog"
	"github.com/vk/kujuconsist/internal/train"
)

// Run loads the consist named in appConfig and prints its cars. A directory
// loads every consist inside it.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if info, err := os.Stat(appConfig.ConsistPath); err == nil && info.IsDir() {
		return a.runBatch(ctx, appConfig)
	}

	if !a.CanLoadTrain(appConfig.ConsistPath) {
		return fmt.Errorf("%s is not a consist file", appConfig.ConsistPath)
	}

	t := train.New()
	if !a.LoadTrain(ctx, appConfig.ConsistPath, t) {
		return fmt.Errorf("failed to load consist %s", appConfig.ConsistPath)
	}

	if err := a.printTrain(t); err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) runBatch(ctx context.Context, appConfig *Config) error {
	paths, err := batch.Consists(appConfig.ConsistPath)
	if err != nil {
		return fmt.Errorf("list consists: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no consist files in %s", appConfig.ConsistPath)
	}

	failed := 0
	for _, res := range batch.Run(ctx, a, paths, appConfig.WorkerCount) {
		fmt.Fprintf(a.outW, "== %s\n", res.Path)
		if !res.OK {
			failed++
			fmt.Fprintln(a.outW, "load failed")
			continue
		}
		if err := a.printTrain(res.Train); err != nil {
			return err
		}
	}
	a.logger.Debug("App.Run method finished.", "consists", len(paths), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d consists failed to load", failed, len(paths))
	}
	return nil
}

func (a *App) printTrain(t *train.Train) error {
	w := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CAR\tNAME\tWIDTH\tHEIGHT\tLENGTH\tMASS\tMOTOR\tREVERSED\tFRONT AXLE\tREAR AXLE\tFILE")
	for _, c := range t.Cars {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.0f\t%t\t%t\t%s\t%s\t%s\n",
			c.Index, c.Name, c.Width, c.Height, c.Length, c.EmptyMass,
			c.IsMotorCar, c.Reversed, c.FrontAxle.TriggerType, c.RearAxle.TriggerType, c.WagonFile)
	}
	return w.Flush()
}
