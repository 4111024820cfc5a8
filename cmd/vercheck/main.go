package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"

	"vercheck/internal/cascade"
	"vercheck/internal/config"
	"vercheck/internal/debug"
	appErrors "vercheck/internal/errors"
	"vercheck/internal/provider"
	"vercheck/internal/provider/cache"
	"vercheck/internal/provider/github"
	"vercheck/internal/provider/gitlab"
	"vercheck/internal/ui"
	"vercheck/internal/ui/theme"
	"vercheck/internal/update"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2

	kindGitHub = "github"
	kindGitLab = "gitlab"
)

var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultEnv())
	stop()
	os.Exit(code)
}

// env holds the collaborators run depends on so tests can replace them.
type env struct {
	newSource   func(kind, ref string, client *http.Client, log *debug.Logger) (provider.Source, error)
	newProgress func(w io.Writer, p theme.Palette) progressReporter
	isTerminal  func(w io.Writer) bool
	copyText    func(text string) error
	logPath     func() (string, error)
}

func defaultEnv() env {
	return env{
		newSource: newSource,
		newProgress: func(w io.Writer, p theme.Palette) progressReporter {
			return newProgressDisplay(w, p)
		},
		isTerminal: isTerminal,
		copyText:   clipboard.WriteAll,
		logPath:    debug.DefaultLogPath,
	}
}

func newSource(kind, ref string, client *http.Client, log *debug.Logger) (provider.Source, error) {
	switch kind {
	case kindGitHub:
		return github.Parse(ref, github.WithHTTPClient(client), github.WithLogger(log))
	case kindGitLab:
		return gitlab.New(ref, gitlab.WithHTTPClient(client), gitlab.WithLogger(log))
	default:
		return nil, appErrors.New(appErrors.CodeConfigurationError, "unknown source kind "+kind, nil)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

type cliFlags struct {
	current    string
	pre        bool
	github     stringList
	gitlab     stringList
	format     string
	theme      string
	saveTheme  bool
	copy       bool
	refresh    bool
	noCache    bool
	timeout    time.Duration
	list       bool
	constraint string
	download   string
	asset      string
	source     string
	debug      bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, map[string]struct{}, []string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("vercheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage: vercheck [flags] [CURRENT_VERSION]")
		fs.PrintDefaults()
	}

	fs.StringVar(&f.current, "current", "", "Current version (or pass it as the first argument)")
	fs.BoolVar(&f.pre, "pre", config.GetBool(config.KeyPreReleases), "Include alpha and beta pre-releases")
	fs.Var(&f.github, "github", "GitHub repository owner/repo (repeatable, first is primary)")
	fs.Var(&f.gitlab, "gitlab", "GitLab releases API URL (repeatable)")
	fs.StringVar(&f.format, "format", config.GetString(config.KeyOutputFormat), "Output format (text, rich, plain, json)")
	fs.StringVar(&f.theme, "theme", config.GetString(config.KeyTheme), "Color theme for rich output")
	fs.BoolVar(&f.saveTheme, "save-theme", false, "Persist -theme to the config file")
	fs.BoolVar(&f.copy, "copy", false, "Copy \"<version>;<url>\" to the clipboard")
	fs.BoolVar(&f.refresh, "refresh", false, "Ignore cached release lists")
	fs.BoolVar(&f.noCache, "no-cache", false, "Disable the release list cache")
	fs.DurationVar(&f.timeout, "timeout", config.GetDuration(config.KeyHTTPTimeout), "HTTP timeout per request")
	fs.BoolVar(&f.list, "list", false, "List available versions instead of checking")
	fs.StringVar(&f.constraint, "constraint", "", "Semver constraint applied by -list (e.g. \">= 2.0, < 3\")")
	fs.StringVar(&f.download, "download", "", "Download the resolved release into this directory")
	fs.StringVar(&f.asset, "asset", "", "Asset name for -download (default: asset for this platform)")
	fs.StringVar(&f.source, "source", "", "Source archive type for -download (zip, tar.gz, tar, tar.bz2)")
	fs.BoolVar(&f.debug, "debug", config.GetBool(config.KeyDebug), "Write a debug log to ~/.vercheck/debug.log")
	fs.BoolVar(&f.version, "version", false, "Print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, err
	}
	visited := map[string]struct{}{}
	fs.Visit(func(fl *flag.Flag) {
		visited[fl.Name] = struct{}{}
	})
	return f, visited, fs.Args(), nil
}

// overridesFromFlags maps explicitly set flags onto configuration keys.
func overridesFromFlags(f *cliFlags, visited map[string]struct{}) (map[string]any, error) {
	overrides := map[string]any{}
	set := func(name string) bool {
		_, ok := visited[name]
		return ok
	}
	if set("pre") {
		overrides[config.KeyPreReleases] = f.pre
	}
	if set("github") || set("gitlab") {
		overrides[config.KeyGitHub] = []string(f.github)
		overrides[config.KeyGitLab] = []string(f.gitlab)
	}
	if set("format") {
		overrides[config.KeyOutputFormat] = strings.TrimSpace(f.format)
	}
	if set("theme") {
		overrides[config.KeyTheme] = strings.TrimSpace(f.theme)
	}
	if set("timeout") {
		if f.timeout <= 0 {
			return nil, fmt.Errorf("%w: -timeout must be positive", errUsage)
		}
		overrides[config.KeyHTTPTimeout] = f.timeout
	}
	if set("no-cache") {
		overrides[config.KeyCacheEnabled] = !f.noCache
	}
	if set("debug") {
		overrides[config.KeyDebug] = f.debug
	}
	return overrides, nil
}

func currentVersion(f *cliFlags, args []string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected at most one CURRENT_VERSION argument, got %d", errUsage, len(args))
	}
	current := strings.TrimSpace(f.current)
	if len(args) == 1 {
		positional := strings.TrimSpace(args[0])
		if current != "" && current != positional {
			return "", fmt.Errorf("%w: -current %q conflicts with argument %q", errUsage, current, positional)
		}
		current = positional
	}
	if current == "" && !f.list {
		return "", fmt.Errorf("%w: current version required", errUsage)
	}
	return current, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, e env) int {
	if err := config.Initialize(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error initializing config: %v\n", err)
		return exitFailure
	}

	f, visited, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if f.version {
		printVersion(stdout)
		return exitOK
	}

	if err := execute(ctx, f, visited, rest, stdout, stderr, e); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage),
		appErrors.IsCode(err, appErrors.CodeMalformedVersion),
		appErrors.IsCode(err, appErrors.CodeConfigurationError):
		return exitUsage
	default:
		return exitFailure
	}
}

func execute(ctx context.Context, f *cliFlags, visited map[string]struct{}, args []string, stdout, stderr io.Writer, e env) error {
	overrides, err := overridesFromFlags(f, visited)
	if err != nil {
		return err
	}
	if err := config.ApplyOverrides(overrides); err != nil {
		return err
	}

	current, err := currentVersion(f, args)
	if err != nil {
		return err
	}
	format, err := ui.ParseFormat(config.GetString(config.KeyOutputFormat))
	if err != nil {
		return err
	}
	dl, err := newDownloadRequest(f)
	if err != nil {
		return err
	}

	logPath, err := e.logPath()
	if err != nil && config.GetBool(config.KeyDebug) {
		return fmt.Errorf("debug log: %w", err)
	}
	log, err := debug.Open(config.GetBool(config.KeyDebug), logPath)
	if err != nil {
		return fmt.Errorf("debug log: %w", err)
	}
	defer log.Close()

	themeName, palette := theme.NewRegistry().Resolve(config.GetString(config.KeyTheme))
	log.Logf("vercheck %s: format=%s theme=%s", Version, format, themeName)
	if f.saveTheme {
		if err := config.SaveTheme(themeName); err != nil {
			return fmt.Errorf("save theme: %w", err)
		}
		_, _ = fmt.Fprintf(stderr, "Saved theme %s\n", themeName)
	}

	client := &http.Client{Timeout: config.GetDuration(config.KeyHTTPTimeout)}
	sources, closeSources, err := buildSources(ctx, client, log, f.refresh, e)
	if err != nil {
		return err
	}
	defer closeSources()

	reporter := progressReporter(noopProgress{})
	if format != ui.FormatJSON && e.isTerminal(stderr) {
		reporter = e.newProgress(stderr, palette)
	}
	defer reporter.Stop()

	checker := cascade.NewChecker(sources[0],
		cascade.WithMirrors(sources[1:]...),
		cascade.WithLogger(log),
		cascade.WithProgress(reporter.Update),
	)
	renderer := ui.NewRenderer(format, palette, ui.DefaultWidth)
	includePre := config.GetBool(config.KeyPreReleases)

	if f.list {
		snaps, errs := checker.Snapshots(ctx)
		reporter.Stop()
		return listVersions(stdout, stderr, renderer, snaps, errs, includePre, f.constraint)
	}

	res, err := checker.Check(ctx, current, includePre)
	reporter.Stop()
	if err != nil {
		return err
	}
	if err := renderer.RenderResult(stdout, res); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if allFailed(res.Steps) {
		return appErrors.New(appErrors.CodeProviderFailed, "no release source could be reached", res.Steps[0].Err)
	}

	if f.copy && res.Available() {
		if err := e.copyText(res.Text()); err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: copy to clipboard: %v\n", err)
		}
	}
	if dl != nil {
		return dl.run(ctx, res, client, log, stderr)
	}
	return nil
}

// buildSources creates the configured sources, GitHub before GitLab, each
// wrapped with the release cache when it is enabled.
func buildSources(ctx context.Context, client *http.Client, log *debug.Logger, refresh bool, e env) ([]provider.Source, func(), error) {
	type ref struct{ kind, value string }
	var refs []ref
	for _, r := range config.GetStringSlice(config.KeyGitHub) {
		refs = append(refs, ref{kindGitHub, r})
	}
	for _, r := range config.GetStringSlice(config.KeyGitLab) {
		refs = append(refs, ref{kindGitLab, r})
	}
	if len(refs) == 0 {
		return nil, nil, fmt.Errorf("%w: no release source configured (use -github or -gitlab)", errUsage)
	}

	sources := make([]provider.Source, 0, len(refs))
	for _, r := range refs {
		src, err := e.newSource(r.kind, r.value, client, log)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}

	closeFn := func() {}
	if !config.GetBool(config.KeyCacheEnabled) {
		return sources, closeFn, nil
	}
	path, err := config.CachePath()
	if err != nil {
		log.Logf("cache: disabled: %v", err)
		return sources, closeFn, nil
	}
	store, err := cache.Open(ctx, path)
	if err != nil {
		log.Logf("cache: disabled: %v", err)
		return sources, closeFn, nil
	}
	ttl := config.GetDuration(config.KeyCacheTTL)
	for i, src := range sources {
		sources[i] = cache.Wrap(src, store,
			cache.WithTTL(ttl),
			cache.WithRefresh(refresh),
			cache.WithLogger(log),
		)
	}
	return sources, func() { _ = store.Close() }, nil
}

func listVersions(stdout, stderr io.Writer, r *ui.Renderer, snaps []*provider.Snapshot, errs []error, includePre bool, constraint string) error {
	var tags []string
	reached := false
	for i, snap := range snaps {
		if snap == nil {
			_, _ = fmt.Fprintf(stderr, "Warning: %v\n", errs[i])
			continue
		}
		reached = true
		tags = append(tags, snap.ListVersions()...)
	}
	if !reached {
		return appErrors.New(appErrors.CodeProviderFailed, "no release source could be reached", errs[0])
	}

	buckets := update.Partition(update.NewInventory(tags...))
	valid := make([]string, 0, len(buckets.Releases)+len(buckets.Alphas)+len(buckets.Betas))
	for _, v := range buckets.Releases {
		valid = append(valid, v.String())
	}
	if includePre {
		for _, v := range buckets.Betas {
			valid = append(valid, v.String())
		}
		for _, v := range buckets.Alphas {
			valid = append(valid, v.String())
		}
	}
	inv := update.NewInventory(valid...)

	sorted := provider.SortTags(inv.Tags())
	if strings.TrimSpace(constraint) != "" {
		filtered, err := provider.FilterTags(sorted, constraint)
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		sorted = filtered
	}

	latest := ""
	if v, ok := update.Latest(inv, includePre); ok {
		latest = v.String()
	}
	return r.RenderVersions(stdout, sorted, latest)
}

func allFailed(steps []cascade.Step) bool {
	if len(steps) == 0 {
		return false
	}
	for _, s := range steps {
		if s.Err == nil {
			return false
		}
	}
	return true
}
