package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID     = "build_id"
	KeyPlugin      = "plugin"
	KeyHook        = "hook"
	KeyPage        = "page"
	KeyPath        = "path"
	KeyURL         = "url"
	KeyFingerprint = "fingerprint"
	KeyCacheHit    = "cache_hit"
	KeyCacheHits   = "cache_hits"
	KeyLayout      = "layout"
	KeyPattern     = "pattern"
	KeyTag         = "tag"
	KeyCount       = "count"
	KeyDurationMS  = "duration_ms"
	KeyOp          = "op"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Hook(name string) slog.Attr      { return slog.String(KeyHook, name) }
func Page(src string) slog.Attr       { return slog.String(KeyPage, src) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Fingerprint(fp string) slog.Attr { return slog.String(KeyFingerprint, fp) }
func CacheHit(hit bool) slog.Attr     { return slog.Bool(KeyCacheHit, hit) }
func CacheHits(n int) slog.Attr       { return slog.Int(KeyCacheHits, n) }
func Layout(name string) slog.Attr    { return slog.String(KeyLayout, name) }
func Pattern(p string) slog.Attr      { return slog.String(KeyPattern, p) }
func Tag(name string) slog.Attr       { return slog.String(KeyTag, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Op(op string) slog.Attr          { return slog.String(KeyOp, op) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Since reports the elapsed milliseconds since start.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
