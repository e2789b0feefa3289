package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/fishtone/internal/colour"
	"github.com/jmylchreest/fishtone/internal/colour/seed"
	"github.com/jmylchreest/fishtone/internal/image"
	"github.com/jmylchreest/fishtone/internal/security"
	httputil "github.com/jmylchreest/fishtone/internal/util/http"
)

// extractOptions holds the flags of the extract command.
type extractOptions struct {
	stride      int
	clusters    int
	rounds      int
	paletteSize int
	minUsable   int
	algorithm   string

	seedMode  string
	seedValue int64

	format  string
	output  string
	preview bool
	jobs    int

	cache    bool
	cacheDir string
	timeout  time.Duration
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	defaults := colour.DefaultConfig()
	o := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <image|directory|url>...",
		Short: "Extract a colour palette from one or more images",
		Long: `Extract a ranked colour palette from one or more images.

Pixels are sampled on a grid, clustered with k-means and the brightest, most
vivid cluster colours are kept. Directories are scanned for images and HTTPS
URLs are downloaded, optionally through an on-disk cache.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Extract the default three colours
  fishtone extract fish.png

  # Show colour previews in the terminal
  fishtone extract --preview fish.png

  # Reproducible palettes for a whole directory, as JSON
  fishtone extract --seed-mode content --format json ./photos

  # CSS custom properties written to a file
  fishtone extract -f css -o palette.css fish.jpg

  # Remote image, cached for later runs
  fishtone extract --cache https://example.com/fish.webp`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args, root.logger)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&o.stride, "stride", "s", defaults.Stride, "sample every Nth pixel along each axis")
	flags.IntVarP(&o.clusters, "clusters", "k", defaults.Clusters, "number of k-means clusters (1-256)")
	flags.IntVar(&o.rounds, "rounds", defaults.Rounds, "number of k-means rounds")
	flags.IntVarP(&o.paletteSize, "palette-size", "n", defaults.PaletteSize, "maximum number of colours in the palette")
	flags.IntVar(&o.minUsable, "min-usable", defaults.MinUsable, "minimum number of colours for a usable palette (default lowers with --palette-size)")
	flags.StringVarP(&o.algorithm, "algorithm", "a", string(defaults.Algorithm), "clustering algorithm (kmeans, dominant)")
	flags.StringVar(&o.seedMode, "seed-mode", string(seed.ModeRandom), "seed mode (random, content, filepath, manual)")
	flags.Int64Var(&o.seedValue, "seed-value", 0, "seed value for manual seed mode")
	flags.StringVarP(&o.format, "format", "f", formatHex, "output format (hex, rgb, json, css, table)")
	flags.StringVarP(&o.output, "output", "o", "", "output file (default: stdout)")
	flags.BoolVarP(&o.preview, "preview", "p", false, "show colour previews in terminal")
	flags.IntVarP(&o.jobs, "jobs", "j", runtime.NumCPU(), "number of images processed concurrently")
	flags.BoolVar(&o.cache, "cache", false, "cache remote images on disk")
	flags.StringVar(&o.cacheDir, "cache-dir", "", "directory for cached remote images (default: user cache dir)")
	flags.DurationVar(&o.timeout, "timeout", httputil.DefaultTimeout, "timeout for fetching remote images")

	return cmd
}

// config builds and validates the pipeline configuration from flags.
func (o *extractOptions) config() (colour.Config, error) {
	cfg := colour.Config{
		Stride:      o.stride,
		Clusters:    o.clusters,
		Rounds:      o.rounds,
		PaletteSize: o.paletteSize,
		MinUsable:   o.minUsable,
		Algorithm:   colour.Algorithm(o.algorithm),
	}
	if err := cfg.Validate(); err != nil {
		return colour.Config{}, err
	}
	return cfg, nil
}

// seedConfig parses the seed flags.
func (o *extractOptions) seedConfig() (seed.Config, error) {
	mode, err := seed.ParseMode(o.seedMode)
	if err != nil {
		return seed.Config{}, err
	}
	cfg := seed.Config{Mode: mode}
	if mode == seed.ModeManual {
		value := o.seedValue
		cfg.Value = &value
	}
	return cfg, nil
}

func (o *extractOptions) run(cmd *cobra.Command, args []string, logger hclog.Logger) error {
	if !cmd.Flags().Changed("min-usable") {
		o.minUsable = min(o.minUsable, max(o.paletteSize, 0))
	}
	cfg, err := o.config()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	seedCfg, err := o.seedConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !isValidFormat(o.format) {
		return fmt.Errorf("unsupported format: %s (supported: %v)", o.format, validFormats)
	}
	if o.jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", o.jobs)
	}
	if o.output != "" {
		if err := security.ValidateOutputPath(o.output); err != nil {
			return fmt.Errorf("invalid output path: %w", err)
		}
	}

	paths, err := image.ExpandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no images found in %v", args)
	}
	logger.Debug("extracting palettes", "images", len(paths), "jobs", o.jobs, "algorithm", cfg.Algorithm)

	loader := image.NewSmartLoader(image.SmartLoaderOptions{
		Cache:    o.cache,
		CacheDir: o.cacheDir,
		Fetch:    httputil.FetchOptions{Timeout: o.timeout},
	})

	results := make([]imageResult, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(o.jobs)
	for i, path := range paths {
		g.Go(func() error {
			result, err := extractImage(ctx, loader, path, cfg, seedCfg, logger.With("image", path))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = imageResult{path: path, result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	insufficient := 0
	for _, r := range results {
		if err := r.result.Err(); err != nil {
			insufficient++
			logger.Warn("insufficient palette", "image", r.path, "colours", r.result.Palette.Len(), "error", err)
		}
	}

	if err := o.write(cmd, results); err != nil {
		return err
	}

	if insufficient == len(results) {
		if len(results) == 1 {
			return results[0].result.Err()
		}
		return fmt.Errorf("no usable palette in %d images: %w", len(results), colour.ErrInsufficientPalette)
	}
	return nil
}

// extractImage loads one image and runs the pipeline over it.
func extractImage(ctx context.Context, loader image.Loader, path string, cfg colour.Config, seedCfg seed.Config, logger hclog.Logger) (*colour.Result, error) {
	img, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg.Seed, err = seed.Resolve(img, path, seedCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate seed: %w", err)
	}
	if cfg.Seed != nil {
		logger.Debug("using fixed seed", "mode", seedCfg.Mode, "seed", *cfg.Seed)
	}

	extractor, err := colour.NewExtractor(cfg, colour.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	result, err := extractor.Extract(image.NewPixelGrid(img))
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}
	return result, nil
}

// write renders results to the output file or the command's stdout.
func (o *extractOptions) write(cmd *cobra.Command, results []imageResult) error {
	if o.output == "" {
		out := cmd.OutOrStdout()
		preview := o.preview && supportsPreview(out)
		return formatResults(out, results, o.format, preview)
	}

	var buf bytes.Buffer
	if err := formatResults(&buf, results, o.format, false); err != nil {
		return err
	}
	// #nosec G306 -- palette output is not sensitive
	if err := os.WriteFile(o.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
