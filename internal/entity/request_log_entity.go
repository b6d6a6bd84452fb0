package entity

// RequestLog counts how often a method+path combination was hit.
type RequestLog struct {
	Method string
	Path   string
	Count  int64
}
