package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyField      = "field"
	KeyLocale     = "locale"
	KeyPlugin     = "plugin"
	KeyCategory   = "category"
	KeyDurationMS = "duration_ms"
	KeyEvent      = "event"
	KeyFormat     = "format"
	KeyAddr       = "addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Field(f string) slog.Attr        { return slog.String(KeyField, f) }
func Locale(prefix string) slog.Attr  { return slog.String(KeyLocale, prefix) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Event(e string) slog.Attr        { return slog.String(KeyEvent, e) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
