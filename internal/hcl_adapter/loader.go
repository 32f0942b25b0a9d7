package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vk/kujuconsist/internal/config"
	"github.com/vk/kujuconsist/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	converter config.Converter
	// Environ supplies the `env` variable. Nil means os.Environ.
	Environ func() []string
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{converter: NewConverter()}
}

// Load orchestrates the entire HCL configuration loading process. Files are
// applied in path order; an attribute set in a later file wins.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := config.Default()

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	evalCtx, err := l.evalContext()
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		merge(model, &root)
		logger.Debug("Applied HCL file.", "file", file)
	}

	logger.Debug("HCL loading complete.", "trainset", model.Trainset.Dir, "index", model.Index.File, "known_types", len(model.Vehicle.KnownTypes))
	return model, nil
}

// evalContext exposes the process environment as `env` and a few string
// functions to configuration expressions.
func (l *Loader) evalContext() (*hcl.EvalContext, error) {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	vars := make(map[string]string)
	for _, e := range environ() {
		if k, v, ok := strings.Cut(e, "="); ok && k != "" {
			vars[k] = v
		}
	}

	converter := l.converter
	if converter == nil {
		converter = NewConverter()
	}
	env, err := converter.ToCtyValue(vars)
	if err != nil {
		return nil, fmt.Errorf("build env variable: %w", err)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
		Functions: map[string]function.Function{
			"lower":     stdlib.LowerFunc,
			"upper":     stdlib.UpperFunc,
			"trimspace": stdlib.TrimSpaceFunc,
		},
	}, nil
}

func merge(model *config.Model, root *fileRoot) {
	if b := root.Trainset; b != nil && b.Dir != nil {
		model.Trainset.Dir = *b.Dir
	}
	if b := root.Vehicle; b != nil && b.KnownTypes != nil {
		model.Vehicle.KnownTypes = b.KnownTypes
	}
	if b := root.Index; b != nil && b.File != nil {
		model.Index.File = *b.File
	}
	if b := root.Log; b != nil {
		if b.Level != nil {
			model.Log.Level = *b.Level
		}
		if b.Format != nil {
			model.Log.Format = *b.Format
		}
	}
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			var found []string
			err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && filepath.Ext(p) == ".hcl" {
					if _, wasSeen := seen[p]; !wasSeen {
						found = append(found, p)
						seen[p] = struct{}{}
					}
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			sort.Strings(found)
			allFiles = append(allFiles, found...)
		} else if filepath.Ext(path) == ".hcl" {
			if _, wasSeen := seen[path]; !wasSeen {
				allFiles = append(allFiles, path)
				seen[path] = struct{}{}
			}
		}
	}
	return allFiles, nil
}
