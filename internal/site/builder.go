package site

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
	"git.home.luguber.info/inful/docplugins/internal/frontmatter"
	"git.home.luguber.info/inful/docplugins/internal/logfields"
	"git.home.luguber.info/inful/docplugins/internal/markdown"
	"git.home.luguber.info/inful/docplugins/internal/metrics"
	"git.home.luguber.info/inful/docplugins/internal/page"
	"git.home.luguber.info/inful/docplugins/internal/plugin"
)

// Status is the final state of a build.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Result summarises a build.
type Result struct {
	BuildID   string
	Status    Status
	Pages     int
	Assets    int
	Discarded int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Builder runs builds for one configuration.
type Builder struct {
	cfg      *config.Config
	host     *plugin.Host
	md       *markdown.Markdown
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option customises a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithLogger sets the logger handed to plugins.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a builder dispatching hooks through host.
func NewBuilder(cfg *config.Config, host *plugin.Host, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		host:     host,
		md:       markdown.New(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs one complete build.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	res := &Result{BuildID: uuid.NewString(), StartTime: time.Now()}
	pc := plugin.NewPluginContext(ctx, b.logger, b.cfg, res.BuildID)

	err := b.run(pc, res)

	res.EndTime = time.Now()
	res.Duration = res.EndTime.Sub(res.StartTime)
	b.recorder.ObserveBuildDuration(res.Duration)
	b.recorder.IncPages(res.Pages)

	switch {
	case err == nil:
		res.Status = StatusSuccess
		b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
		pc.Logger.Info("Build completed",
			logfields.Count(res.Pages),
			slog.Int("assets", res.Assets),
			logfields.Since(res.StartTime))
	case stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded):
		res.Status = StatusCanceled
		b.recorder.IncBuildOutcome(metrics.OutcomeCanceled)
	default:
		res.Status = StatusFailed
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
	}
	return res, err
}

func (b *Builder) run(pc *plugin.PluginContext, res *Result) (err error) {
	if err := b.host.Config(pc); err != nil {
		return err
	}

	postBuilt := false
	defer func() {
		// Join work that plugins already scheduled before reporting the failure.
		if err != nil && !postBuilt {
			if perr := b.host.PostBuild(pc); perr != nil {
				pc.Logger.Debug("Post-build after failure", logfields.Error(perr))
			}
		}
	}()

	discovered, err := b.discover()
	if err != nil {
		return err
	}
	files, err := b.host.Files(pc, discovered)
	if err != nil {
		return err
	}
	res.Discarded = len(discovered) - len(files)
	pc.Logger.Debug("Discovered files", logfields.Count(len(files)), logfields.Path(b.cfg.DocsDir()))

	var assets []page.File
	for _, f := range files {
		if err := pc.Err(); err != nil {
			return err
		}
		if !f.IsMarkdown() {
			assets = append(assets, f)
			continue
		}
		if err := b.buildPage(pc, f); err != nil {
			return err
		}
		res.Pages++
	}

	for _, f := range assets {
		if err := pc.Err(); err != nil {
			return err
		}
		if err := copyFile(f.AbsPath, b.outPath(f)); err != nil {
			return err
		}
		res.Assets++
	}

	postBuilt = true
	return b.host.PostBuild(pc)
}

// discover walks the docs directory and returns every regular file sorted by
// source path. The site directory is skipped when it lives inside docs.
func (b *Builder) discover() ([]page.File, error) {
	root := b.cfg.DocsDir()
	siteDir := filepath.Clean(b.cfg.SiteDir())

	var files []page.File
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && filepath.Clean(p) == siteDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, page.File{SrcPath: filepath.ToSlash(rel), AbsPath: p})
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "discover docs").
			Fatal().WithContext("path", root).Build()
	}
	sort.Slice(files, func(i, j int) bool { return files[i].SrcPath < files[j].SrcPath })
	return files, nil
}

func (b *Builder) buildPage(pc *plugin.PluginContext, f page.File) error {
	raw, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read page").
			Fatal().WithContext("page", f.SrcPath).Build()
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid front matter").
			Fatal().UserAction().WithContext("page", f.SrcPath).Build()
	}

	p := &page.Page{
		File:     f,
		Title:    b.md.Analyze(doc.Body, "").Title,
		Meta:     doc.Meta,
		Markdown: doc.Body,
	}
	if p.Title == "" {
		p.Title = markdown.TitleFromFilename(f.SrcPath)
	}

	if err := b.host.PageMarkdown(pc, p); err != nil {
		return err
	}

	content, err := b.md.Render(p.Markdown)
	if err != nil {
		return errors.WrapError(err, errors.CategoryBuild, "render markdown").
			Fatal().WithContext("page", f.SrcPath).Build()
	}
	p.Content = content

	if err := b.host.PageContent(pc, p); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := renderPage(&buf, b.cfg.Site.Name, p); err != nil {
		return errors.WrapError(err, errors.CategoryBuild, "execute page template").
			Fatal().WithContext("page", f.SrcPath).Build()
	}
	out := b.outPath(f)
	if err := writeFile(out, buf.Bytes()); err != nil {
		return err
	}
	pc.Logger.Debug("Page written", logfields.Page(f.SrcPath), logfields.Path(f.DestPath()))
	return nil
}

func (b *Builder) outPath(f page.File) string {
	return filepath.Join(b.cfg.SiteDir(), filepath.FromSlash(f.DestPath()))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			Fatal().WithContext("path", path).Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write output file").
			Fatal().WithContext("path", path).Build()
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "open asset").
			Fatal().WithContext("path", src).Build()
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			Fatal().WithContext("path", dst).Build()
	}
	out, err := os.Create(dst)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create asset").
			Fatal().WithContext("path", dst).Build()
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.WrapError(err, errors.CategoryFileSystem, "copy asset").
			Fatal().WithContext("path", dst).Build()
	}
	if err := out.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "close asset").
			Fatal().WithContext("path", dst).Build()
	}
	return nil
}
