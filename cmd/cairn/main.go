package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/foomo/cairn"
	"github.com/foomo/cairn/config"
	"github.com/foomo/cairn/reports"
	"github.com/foomo/cairn/vo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	if errExecute := newRootCommand().Execute(); errExecute != nil {
		os.Exit(1)
	}
}

type flags struct {
	output        string
	userAgent     string
	timeout       int
	proxy         string
	noJS          bool
	noCSS         bool
	noEmbeds      bool
	noMedias      bool
	configFile    string
	concurrency   int
	respectRobots bool
	reports       []string
	pushgateway   string
	debug         bool
}

func newRootCommand() *cobra.Command {
	return newCommand(&flags{})
}

func newCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cairn [options] url1 [url2]...[urlN]",
		Short:        "save web pages as single HTML files",
		Version:      version,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "directory to save archives in, - prints to stdout")
	fl.StringVarP(&f.userAgent, "user-agent", "u", "", "custom user agent")
	fl.IntVarP(&f.timeout, "timeout", "t", 0, "request timeout in seconds")
	fl.StringVarP(&f.proxy, "proxy", "p", "", "proxy url, http(s):// or socks5://")
	fl.BoolVar(&f.noJS, "no-js", false, "disable JavaScript")
	fl.BoolVar(&f.noCSS, "no-css", false, "disable CSS styling")
	fl.BoolVar(&f.noEmbeds, "no-embeds", false, "remove embedded elements (e.g iframe)")
	fl.BoolVar(&f.noMedias, "no-medias", false, "remove media elements (e.g img, audio)")
	fl.StringVarP(&f.configFile, "config", "c", "", "path/to/config.yaml")
	fl.IntVar(&f.concurrency, "concurrency", config.DefaultConcurrency, "number of pages captured at the same time")
	fl.BoolVar(&f.respectRobots, "respect-robots", false, "skip pages disallowed by robots.txt")
	fl.StringSliceVar(&f.reports, "report", nil, "reports to print when done: "+strings.Join(reports.Names(), ", "))
	fl.StringVar(&f.pushgateway, "pushgateway", "", "push metrics to this prometheus pushgateway when done")
	fl.BoolVar(&f.debug, "debug", false, "debug logging")
	return cmd
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command, f *flags) (conf *config.Config, err error) {
	conf = config.Default()
	if f.configFile != "" {
		conf, err = config.Get(f.configFile)
		if err != nil {
			return nil, err
		}
	}
	changed := cmd.Flags().Changed
	if changed("output") {
		conf.Output = f.output
	}
	if changed("user-agent") {
		conf.UserAgent = f.userAgent
	}
	if changed("timeout") {
		if f.timeout < 1 {
			return nil, fmt.Errorf("invalid timeout %d", f.timeout)
		}
		conf.Timeout = time.Duration(f.timeout) * time.Second
	}
	if changed("proxy") {
		conf.Proxy = f.proxy
	}
	if changed("concurrency") {
		conf.Concurrency = f.concurrency
	}
	if conf.Concurrency < 1 {
		conf.Concurrency = 1
	}
	if changed("pushgateway") {
		conf.Pushgateway = f.pushgateway
	}
	conf.DisableJS = conf.DisableJS || f.noJS
	conf.DisableCSS = conf.DisableCSS || f.noCSS
	conf.DisableEmbeds = conf.DisableEmbeds || f.noEmbeds
	conf.DisableMedias = conf.DisableMedias || f.noMedias
	conf.RespectRobots = conf.RespectRobots || f.respectRobots
	return conf, nil
}

func run(cmd *cobra.Command, f *flags, urls []string) error {
	conf, errConf := loadConfig(cmd, f)
	if errConf != nil {
		return errConf
	}
	if errReports := reports.Validate(f.reports); errReports != nil {
		return errReports
	}
	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if f.debug {
		spew.Fdump(cmd.ErrOrStderr(), conf)
	}

	toStdout := conf.Output == "-"
	if !toStdout && conf.Output != "" {
		info, errStat := os.Stat(conf.Output)
		if errStat != nil {
			return fmt.Errorf("output does not exist: %w", errStat)
		}
		if !info.IsDir() {
			return fmt.Errorf("output is not a directory: %s", conf.Output)
		}
	}

	reg := prometheus.NewRegistry()
	archiver, errArchiver := cairn.NewArchiver(
		conf.Options(),
		cairn.WithLogger(logger),
		cairn.WithMetrics(cairn.NewMetrics(reg)),
		cairn.WithRobots(conf.RespectRobots),
	)
	if errArchiver != nil {
		return errArchiver
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	outLock := sync.Mutex{}
	failed := atomic.Int32{}
	archives := make([]*vo.Archived, len(urls))

	g := errgroup.Group{}
	g.SetLimit(conf.Concurrency)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			archived, errArchive := archiver.Archive(ctx, u)
			archives[i] = archived
			if errArchive != nil {
				failed.Add(1)
				outLock.Lock()
				fmt.Fprintln(cmd.ErrOrStderr(), u, "=>", errArchive)
				outLock.Unlock()
				return nil
			}
			outLock.Lock()
			defer outLock.Unlock()
			if toStdout {
				_, errWrite := io.WriteString(out, archived.Webpage+"\n")
				return errWrite
			}
			filename := filepath.Join(conf.Output, fileName(u, archived.Time))
			if errWrite := os.WriteFile(filename, []byte(archived.Webpage), 0o644); errWrite != nil {
				failed.Add(1)
				fmt.Fprintln(cmd.ErrOrStderr(), u, "=>", errWrite)
				return nil
			}
			fmt.Fprintln(out, u, "=>", filename)
			return nil
		})
	}
	if errWait := g.Wait(); errWait != nil {
		return errWait
	}

	if len(f.reports) > 0 {
		reportWriter := out
		if toStdout {
			reportWriter = cmd.ErrOrStderr()
		}
		if errReport := reports.Report(reportWriter, f.reports, archives); errReport != nil {
			return errReport
		}
	}
	if conf.Pushgateway != "" {
		if errPush := push.New(conf.Pushgateway, "cairn").Gatherer(reg).Push(); errPush != nil {
			logger.Error("could not push metrics", slog.String("pushgateway", conf.Pushgateway), slog.String("err", errPush.Error()))
		}
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d captures failed", n, len(urls))
	}
	return nil
}
