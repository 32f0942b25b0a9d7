package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/vk/kujuconsist/internal/app"
	"github.com/vk/kujuconsist/internal/hcl_adapter"
	"github.com/vk/kujuconsist/internal/registry"
	"github.com/vk/kujuconsist/internal/train"
)

// HarnessResult holds the outcomes of a train load run through the app.
type HarnessResult struct {
	LogOutput string
	OK        bool
	Err       error
	Train     *train.Train
	App       *app.App
}

// NewTestApp creates an app that logs JSON at debug level into the
// returned buffer.
func NewTestApp(t *testing.T, appConfig *app.Config, modules ...registry.Module) (*app.App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	appConfig.LogLevel = "debug"
	appConfig.LogFormat = "json"
	testApp := app.NewApp(logBuffer, appConfig, hcl_adapter.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("KUJU_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}

// RunLoad starts an app over the layout and loads consistPath through
// LoadTrain. A startup panic is reported in Err rather than failing the
// test, so configuration errors can be asserted on.
func RunLoad(t *testing.T, consistPath string, appConfig *app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()

	if appConfig == nil {
		appConfig = &app.Config{}
	}
	appConfig.ConsistPath = consistPath

	var testApp *app.App
	var logBuffer *SafeBuffer
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp, logBuffer = NewTestApp(t, appConfig, modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{Err: fmt.Errorf("application startup panicked | %v", panicErr)}
	}

	tr := train.New()
	ok := testApp.LoadTrain(context.Background(), consistPath, tr)

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		OK:        ok,
		Train:     tr,
		App:       testApp,
	}
}
