// Package build runs the assembler over every variant of a manifest and
// writes the results to an output directory.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jaspreet-dot-casa/armparts/pkg/canonical"
	"github.com/jaspreet-dot-casa/armparts/pkg/config"
	"github.com/jaspreet-dot-casa/armparts/pkg/ctxlog"
	"github.com/jaspreet-dot-casa/armparts/pkg/generator"
	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

// Options controls a build run.
type Options struct {
	// OutputDir receives the documents. Created if absent.
	OutputDir string

	// WriteParameterFiles copies each variant's parameter file next to its
	// document as <output>.parameters.json.
	WriteParameterFiles bool

	// KeepGoing continues with the remaining variants after a failure.
	KeepGoing bool

	// Variants restricts the build to the named variants. Empty builds all.
	Variants []string
}

// VariantResult is the outcome of building one variant.
type VariantResult struct {
	Variant    string
	Output     string
	Parameters string
	Files      []generator.EmbeddedFile
	Bytes      int
	Duration   time.Duration
	Err        error
}

// Success reports whether the variant was written.
func (r *VariantResult) Success() bool {
	return r.Err == nil
}

// Report summarizes a build run.
type Report struct {
	RunID     string
	OutputDir string
	Started   time.Time
	Duration  time.Duration
	Results   []VariantResult
}

// Succeeded returns the number of variants written.
func (r *Report) Succeeded() int {
	count := 0
	for i := range r.Results {
		if r.Results[i].Success() {
			count++
		}
	}
	return count
}

// Failed returns the number of variants that failed.
func (r *Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Builder builds the variants of a manifest.
type Builder struct {
	manifest *config.Manifest
}

// NewBuilder creates a Builder for the manifest.
func NewBuilder(m *config.Manifest) *Builder {
	return &Builder{manifest: m}
}

// Build assembles the selected variants in manifest order. Without
// KeepGoing the first failure stops the run. The report is returned even
// when err is non-nil.
func (b *Builder) Build(ctx context.Context, opts *Options, progress ProgressCallback) (*Report, error) {
	if progress == nil {
		progress = NoOpProgress
	}

	report := &Report{
		RunID:     uuid.NewString(),
		OutputDir: opts.OutputDir,
		Started:   time.Now(),
	}
	defer func() {
		report.Duration = time.Since(report.Started)
	}()

	logger := ctxlog.FromContext(ctx).With("run_id", report.RunID)
	ctx = ctxlog.WithLogger(ctx, logger)

	variants, err := b.selectVariants(opts.Variants)
	if err != nil {
		return report, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return report, fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info("build started", "variants", len(variants), "output_dir", opts.OutputDir)

	var errs []error
	for _, v := range variants {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := b.buildVariant(ctx, v, opts, progress)
		report.Results = append(report.Results, result)

		if result.Err != nil {
			err := fmt.Errorf("variant %s: %w", v.Name, result.Err)
			if !opts.KeepGoing {
				return report, err
			}
			errs = append(errs, err)
		}
	}

	logger.Info("build finished", "succeeded", report.Succeeded(), "failed", report.Failed())
	return report, errors.Join(errs...)
}

// selectVariants resolves names to variants, keeping manifest order.
func (b *Builder) selectVariants(names []string) ([]*config.Variant, error) {
	if len(names) == 0 {
		variants := make([]*config.Variant, 0, len(b.manifest.Variants))
		for i := range b.manifest.Variants {
			variants = append(variants, &b.manifest.Variants[i])
		}
		return variants, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if b.manifest.Find(name) == nil {
			return nil, fmt.Errorf("unknown variant %q", name)
		}
		wanted[name] = true
	}

	var variants []*config.Variant
	for i := range b.manifest.Variants {
		if wanted[b.manifest.Variants[i].Name] {
			variants = append(variants, &b.manifest.Variants[i])
		}
	}
	return variants, nil
}

func (b *Builder) buildVariant(ctx context.Context, v *config.Variant, opts *Options, progress ProgressCallback) VariantResult {
	start := time.Now()
	logger := ctxlog.FromContext(ctx).With("variant", v.Name)

	output := filepath.Join(opts.OutputDir, v.Output)
	result := VariantResult{Variant: v.Name, Output: output}
	fail := func(err error) VariantResult {
		result.Err = err
		result.Duration = time.Since(start)
		logger.Error("variant failed", "error", err)
		progress(NewErrorEvent(v.Name, err))
		return result
	}

	progress(NewProgressEvent(StageAssembling, v.Name, "assembling "+v.BaseTemplate))

	in := b.manifest.Inputs(v)
	in.DumpPath = output + generator.DumpSuffix

	doc, err := generator.NewAssembler(logger).Assemble(in)
	if err != nil {
		return fail(err)
	}
	result.Files = doc.Files
	result.Bytes = len(doc.Text)

	progress(NewProgressEvent(StageWriting, v.Name, "writing "+output))
	if err := doc.WriteFile(output); err != nil {
		return fail(err)
	}

	// A dump from an earlier failed run no longer describes this output.
	if err := os.Remove(in.DumpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to remove stale dump", "path", in.DumpPath, "error", err)
	}

	if opts.WriteParameterFiles && v.Parameters != "" {
		parameters := filepath.Join(opts.OutputDir, v.ParametersOutput())
		progress(NewProgressEvent(StageParameters, v.Name, "writing "+parameters))

		if err := writeParameters(b.manifest.Path(v.Parameters), parameters); err != nil {
			return fail(err)
		}
		result.Parameters = parameters
	}

	result.Duration = time.Since(start)
	logger.Debug("variant written", "output", output, "bytes", result.Bytes, "files", len(result.Files))
	progress(NewProgressEvent(StageComplete, v.Name, "wrote "+output))
	return result
}

// writeParameters writes the canonical form of a parameter file, wrapping a
// bare parameter map in the deployment parameters envelope. Comments and
// trailing commas in the source are accepted and dropped.
func writeParameters(src, dst string) error {
	data, err := project.ReadInput(src)
	if err != nil {
		return err
	}

	text, err := canonical.ParametersFile(string(data), canonical.WithComments())
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	if err := os.WriteFile(dst, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
