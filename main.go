package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/foomo/contentserver-richtext/config"
	"github.com/foomo/contentserver-richtext/contentful"
	"github.com/foomo/contentserver-richtext/mcp"
	"github.com/foomo/contentserver-richtext/richtext"
	"github.com/foomo/contentserver-richtext/service"
	"github.com/mark3labs/mcp-go/server"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// useConfigAddr is the value of a bare --http flag.
const useConfigAddr = "-"

type options struct {
	configPath string
	stdio      bool
	httpAddr   string
	render     string
	dump       string
	plain      bool
	verbose    bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	fs.BoolVar(&opts.stdio, "stdio", true, "Run in stdio mode")
	fs.StringVar(&opts.httpAddr, "http", "", "HTTP server address (e.g., ':8080'), bare flag uses the configured address")
	fs.Lookup("http").NoOptDefVal = useConfigAddr
	fs.StringVar(&opts.render, "render", "", "Render a rich-text JSON file (- for stdin) to HTML and exit")
	fs.StringVar(&opts.dump, "dump", "", "Print the decoded document tree of a JSON file (- for stdin) and exit")
	fs.BoolVar(&opts.plain, "plain", false, "Render without class attributes")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	return opts, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	opts, err := parseFlags(os.Args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// maxprocs.Set only fails on an invalid GOMAXPROCS value, the runtime
	// default applies then.
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, opts, os.Stdin, os.Stdout); err != nil {
		logger.Error("exiting", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, opts *options, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.plain {
		cfg.Renderer.Plain = true
	}
	renderer := newRenderer(cfg, logger)

	switch {
	case opts.render != "":
		data, err := readInput(opts.render, stdin)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, renderer.Render(data))
		return err
	case opts.dump != "":
		data, err := readInput(opts.dump, stdin)
		if err != nil {
			return err
		}
		doc, err := richtext.DecodeBytes(data)
		if err != nil {
			return err
		}
		spew.Fdump(stdout, doc)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	svc, err := newService(cfg, renderer, logger)
	if err != nil {
		return err
	}
	s := mcp.NewServer(svc, renderer)

	if opts.httpAddr != "" {
		addr := opts.httpAddr
		if addr == useConfigAddr {
			addr = cfg.HTTP.Addr
		}
		return serveHTTP(ctx, logger, s, svc, addr, cfg.HTTP.Endpoint)
	}
	if !opts.stdio {
		return errors.New("nothing to serve: pass --http or --stdio")
	}
	logger.Info("starting MCP server in stdio mode")
	return server.ServeStdio(s)
}

func newRenderer(cfg *config.Config, logger *zap.Logger) *richtext.Renderer {
	opts := []richtext.Option{
		richtext.WithLogger(logger.Named("richtext")),
		richtext.WithMaxDepth(cfg.Renderer.MaxDepth),
	}
	if cfg.Renderer.Plain {
		opts = append(opts, richtext.WithStyles(richtext.PlainStyles()))
	}
	return richtext.New(opts...)
}

// newService returns nil when no content source is configured.
func newService(cfg *config.Config, renderer *richtext.Renderer, logger *zap.Logger) (service.Service, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	var source service.Source
	switch cfg.Source {
	case config.SourceContentful:
		client, err := contentful.New(cfg.Contentful, httpClient, logger.Named("contentful"))
		if err != nil {
			return nil, err
		}
		source = client
	case config.SourceContentServer:
		source = service.NewContentServerSource(service.ContentServerSettings{
			URL:       cfg.ContentServer.URL,
			RootID:    cfg.ContentServer.RootID,
			Dimension: cfg.ContentServer.Dimension,
		}, httpClient)
	default:
		logger.Info("no content source configured, page tools disabled")
		return nil, nil
	}

	return service.NewService(
		service.SiteSettings{
			BaseURL:  cfg.BaseURL,
			Sections: cfg.Sections,
		},
		source,
		renderer,
		logger.Named("service"),
	), nil
}

func serveHTTP(ctx context.Context, logger *zap.Logger, s *server.MCPServer, svc service.Service, addr, endpoint string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mcp.NewSiteHTTPServer(logger.Named("http"), s, svc, endpoint),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting MCP server", zap.String("addr", addr), zap.String("endpoint", endpoint))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}
