// Package exclude drops source files matching fnmatch-style patterns before
// they reach the build.
package exclude

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
	"git.home.luguber.info/inful/docplugins/internal/logfields"
	"git.home.luguber.info/inful/docplugins/internal/metrics"
	"git.home.luguber.info/inful/docplugins/internal/page"
	"git.home.luguber.info/inful/docplugins/internal/plugin"
)

// Name is the plugin name.
const Name = "exclude"

// Filter matches slash-separated source paths against glob patterns.
type Filter struct {
	patterns []string
	compiled []*regexp.Regexp
}

// NewFilter compiles patterns. `*` matches any run of characters including
// `/`, `?` matches one character, `[seq]` and `[!seq]` match character sets;
// the whole path must match.
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{}
	for _, g := range patterns {
		if strings.TrimSpace(g) == "" {
			continue
		}
		rx, err := regexp.Compile(globToRegex(g))
		if err != nil {
			return nil, fmt.Errorf("compile glob %s: %w", g, err)
		}
		f.patterns = append(f.patterns, g)
		f.compiled = append(f.compiled, rx)
	}
	return f, nil
}

// Match returns the first pattern matching srcPath.
func (f *Filter) Match(srcPath string) (string, bool) {
	if f == nil {
		return "", false
	}
	for i, rx := range f.compiled {
		if rx.MatchString(srcPath) {
			return f.patterns[i], true
		}
	}
	return "", false
}

// globToRegex converts a shell-style glob to a regex string (anchored).
func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			end := strings.IndexByte(glob[i+1:], ']')
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			class := glob[i+1 : i+1+end]
			b.WriteByte('[')
			if strings.HasPrefix(class, "!") {
				b.WriteByte('^')
				class = class[1:]
			}
			b.WriteString(strings.ReplaceAll(class, `\`, `\\`))
			b.WriteByte(']')
			i += end + 1
		case '.', '+', '(', ')', '|', '^', '$', '{', '}', ']', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteString("$")
	return b.String()
}

// Plugin removes excluded files in the files hook.
type Plugin struct {
	plugin.BasePlugin
	filter   *Filter
	recorder metrics.Recorder
}

// New builds the plugin from patterns. An invalid pattern is a configuration error.
func New(patterns []string, recorder metrics.Recorder) (*Plugin, error) {
	filter, err := NewFilter(patterns)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid exclude pattern").
			Fatal().UserAction().Build()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Plugin{filter: filter, recorder: recorder}, nil
}

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeFilter,
		Description: "Drops source files matching exclude patterns",
	}
}

// Order runs the filter before any other files hook.
func (p *Plugin) Order() int { return -100 }

func (p *Plugin) OnFiles(pc *plugin.PluginContext, files []page.File) ([]page.File, error) {
	kept := files[:0:0]
	for _, f := range files {
		if pattern, ok := p.filter.Match(f.SrcPath); ok {
			pc.Logger.Debug("Excluding file", logfields.Path(f.SrcPath), logfields.Pattern(pattern))
			p.recorder.IncExcluded()
			continue
		}
		kept = append(kept, f)
	}
	if removed := len(files) - len(kept); removed > 0 {
		pc.Logger.Info("Excluded files", logfields.Count(removed))
	}
	return kept, nil
}
