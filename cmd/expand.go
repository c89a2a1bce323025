package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unshorten/internal/config"
	"unshorten/pkg/cache"
	"unshorten/pkg/cache/memory"
	"unshorten/pkg/cache/rediscache"
	"unshorten/pkg/cache/sqlitecache"
	"unshorten/pkg/domains"
	"unshorten/pkg/logger"
	"unshorten/pkg/metrics"
	"unshorten/pkg/resolver/hredirect"
	"unshorten/pkg/unshortener"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootFlags collects every CLI option of the batch run.
type rootFlags struct {
	configPath string

	maxLen           int
	domainsPath      string
	domainsNoHeader  bool
	noBuiltinDomains bool

	noCache        bool
	cacheRedis     bool
	cacheRedisHost string
	cacheRedisPort int
	cacheRedisDB   int
	cacheSQLite    string

	rps         float64
	progress    bool
	metricsAddr string
	debug       bool
}

func newRootCommand() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:          "unshorten <input_file> <output_file>",
		Short:        "Expand shortened URLs by following their redirect chains",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &f, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "config.yml", "config file path (optional)")
	cmd.Flags().IntVarP(&f.maxLen, "maxlen", "m", 0, "do not expand URLs longer than this many bytes")
	cmd.Flags().StringVarP(&f.domainsPath, "domains", "d", "", "CSV of shortener domains to expand (replaces builtin list)")
	cmd.Flags().BoolVar(&f.domainsNoHeader, "domains-noheader", false, "domains CSV has no header row")
	cmd.Flags().BoolVarP(&f.noBuiltinDomains, "no-builtin-domains", "n", false, "do not restrict expansion to the builtin shortener list")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.cacheRedis, "cache-redis", false, "cache to Redis")
	cmd.Flags().StringVar(&f.cacheRedisHost, "cache-redis-host", "localhost", "Redis host")
	cmd.Flags().IntVar(&f.cacheRedisPort, "cache-redis-port", 6379, "Redis port")
	cmd.Flags().IntVar(&f.cacheRedisDB, "cache-redis-db", 0, "Redis db")
	cmd.Flags().StringVar(&f.cacheSQLite, "cache-sqlite", "", "cache to a SQLite database at this path")
	cmd.Flags().Float64Var(&f.rps, "rps", 0, "max upstream requests per second (0 = unlimited)")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "render a progress bar")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "debug logging")

	return cmd
}

func run(cmd *cobra.Command, f *rootFlags, inputPath, outputPath string) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	logger.Setup(cfg.Environment, f.debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	urls, err := readLines(inputPath)
	if err != nil {
		return err
	}

	domainSet, err := buildDomainSet(f)
	if err != nil {
		return err
	}

	c, err := buildCache(ctx, cmd, f, cfg)
	if err != nil {
		return err
	}
	if c != nil {
		defer func() {
			if err := c.Close(); err != nil {
				logger.Warn(ctx, "could not close cache", zap.Error(err))
			}
		}()
	}

	if f.metricsAddr != "" {
		go func() {
			if err := metrics.Serve(f.metricsAddr); err != nil {
				logger.Warn(ctx, "metrics listener stopped", zap.Error(err))
			}
		}()
	}

	res := hredirect.New(hredirect.Options{
		Timeout:        cfg.HTTP.TimeoutTotal,
		MaxRedirects:   cfg.HTTP.MaxRedirects,
		MaxConnections: cfg.HTTP.MaxConnections,
		DNSCacheTTL:    cfg.HTTP.DNSCacheTTL,
		UserAgent:      cfg.HTTP.UserAgent,
	})

	opts := []unshortener.Option{
		unshortener.WithConcurrency(cfg.HTTP.MaxConnections),
		unshortener.WithMaxLen(f.maxLen),
		unshortener.WithDomains(domainSet),
		unshortener.WithCache(c),
		unshortener.WithRateLimit(f.rps),
	}
	if f.progress {
		opts = append(opts, unshortener.WithProgress(os.Stderr))
	}

	lines, stats := unshortener.New(res, opts...).Expand(ctx, urls)

	if err := writeLines(outputPath, lines); err != nil {
		return err
	}

	stats.Report(ctx)

	return nil
}

// buildDomainSet maps the domain flags onto a filter set: a user CSV replaces
// the builtin list, and -n lifts the domain restriction entirely.
func buildDomainSet(f *rootFlags) (*domains.Set, error) {
	if f.domainsPath != "" {
		return domains.LoadCSV(f.domainsPath, !f.domainsNoHeader)
	}
	if f.noBuiltinDomains {
		return nil, nil
	}

	return domains.Builtin()
}

// buildCache selects the cache backend. The CLI defaults to the in-memory
// variant; explicit flags choose Redis, SQLite or no caching at all. For
// Redis, REDIS_URL from the environment takes precedence over the discrete
// flags, and the discrete flags over the config file.
func buildCache(ctx context.Context, cmd *cobra.Command, f *rootFlags, cfg *config.Config) (cache.Cache, error) {
	switch {
	case f.noCache:
		logger.Info(ctx, "caching disabled")

		return nil, nil

	case f.cacheRedis:
		o := rediscache.Options{
			URL:  cfg.Redis.URL,
			Host: cfg.Redis.Host,
			Port: cfg.Redis.Port,
			DB:   cfg.Redis.DB,
		}
		if cmd.Flags().Changed("cache-redis-host") {
			o.Host = f.cacheRedisHost
		}
		if cmd.Flags().Changed("cache-redis-port") {
			o.Port = f.cacheRedisPort
		}
		if cmd.Flags().Changed("cache-redis-db") {
			o.DB = f.cacheRedisDB
		}

		logger.Info(ctx, "caching to redis",
			zap.String("host", o.Host), zap.Int("port", o.Port), zap.Int("db", o.DB),
			zap.Bool("fromURL", o.URL != ""))

		return rediscache.New(ctx, o)

	case f.cacheSQLite != "":
		logger.Info(ctx, "caching to sqlite", zap.String("path", f.cacheSQLite))

		return sqlitecache.New(f.cacheSQLite)

	default:
		logger.Info(ctx, "caching in memory")

		return memory.New(), nil
	}
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open input file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read input file: %w", err)
	}

	return lines, nil
}

func writeLines(path string, lines []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}

	w := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			_ = file.Close()

			return fmt.Errorf("could not write output file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()

		return fmt.Errorf("could not flush output file: %w", err)
	}

	return file.Close() //nolint: wrapcheck
}
