package response

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/log"
)

const compressionThreshold = 1024

// Builder generates HTTP responses.
type Builder struct {
	w                 http.ResponseWriter
	r                 *http.Request
	statusCode        int
	headers           map[string]string
	enableCompression bool
	body              []byte
}

// WithStatus uses the given status code to build the response.
func (b *Builder) WithStatus(statusCode int) *Builder {
	b.statusCode = statusCode
	return b
}

// WithHeader adds the given HTTP header to the response.
func (b *Builder) WithHeader(key, value string) *Builder {
	b.headers[key] = value
	return b
}

// WithBody uses the given body to build the response.
func (b *Builder) WithBody(body []byte) *Builder {
	b.body = body
	return b
}

// WithoutCompression disables HTTP compression.
func (b *Builder) WithoutCompression() *Builder {
	b.enableCompression = false
	return b
}

// Write generates the HTTP response.
func (b *Builder) Write() {
	if b.body == nil {
		b.writeHeaders()
		return
	}

	if b.enableCompression && len(b.body) > compressionThreshold &&
		strings.Contains(b.r.Header.Get("Accept-Encoding"), "br") {
		b.headers["Content-Encoding"] = "br"
		b.headers["Vary"] = "Accept-Encoding"
		b.writeHeaders()

		brotliWriter := brotli.NewWriterLevel(b.w, brotli.BestSpeed)
		defer brotliWriter.Close()
		b.write(brotliWriter)
		return
	}

	b.writeHeaders()
	b.write(b.w)
}

func (b *Builder) writeHeaders() {
	b.headers["X-Content-Type-Options"] = "nosniff"
	b.headers["X-Frame-Options"] = "DENY"

	for key, value := range b.headers {
		b.w.Header().Set(key, value)
	}

	b.w.WriteHeader(b.statusCode)
}

func (b *Builder) write(w io.Writer) {
	if _, err := w.Write(b.body); err != nil {
		log.Error("Unable to write response body", zap.Error(err))
	}
}

// New creates a new response builder.
func New(w http.ResponseWriter, r *http.Request) *Builder {
	return &Builder{w: w, r: r, statusCode: http.StatusOK, headers: make(map[string]string), enableCompression: true}
}
