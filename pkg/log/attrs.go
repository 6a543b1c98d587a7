package log

import "log/slog"

func APIName(name string) slog.Attr {
	return slog.String("api_name", name)
}

func SourceURL(url string) slog.Attr {
	return slog.String("source_url", url)
}

func TraceID(id string) slog.Attr {
	return slog.String("trace_id", id)
}

func Status[T ~string](status T) slog.Attr {
	return slog.String("status", string(status))
}

func Timestamp(ts int64) slog.Attr {
	return slog.Int64("timestamp", ts)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}

func ErrorString(msg string) slog.Attr {
	return slog.String("error", msg)
}
