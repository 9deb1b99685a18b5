package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyCategory   = "category"
	KeySessionID  = "session_id"
	KeyIndex      = "index"
	KeyCount      = "count"
	KeyHash       = "hash"
	KeyDir        = "dir"
	KeyPath       = "path"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyRequestID  = "request_id"
	KeyClientID   = "client_id"
	KeyAddr       = "addr"
	KeyOp         = "op"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func SessionID(id string) slog.Attr   { return slog.String(KeySessionID, id) }
func Index(i int) slog.Attr           { return slog.Int(KeyIndex, i) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Hash(h string) slog.Attr         { return slog.String(KeyHash, h) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func ClientID(id string) slog.Attr    { return slog.String(KeyClientID, id) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Op(name string) slog.Attr        { return slog.String(KeyOp, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
