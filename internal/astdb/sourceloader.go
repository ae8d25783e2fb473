package astdb

import (
	"context"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// SourceLoader reads unit source text through afs.Service, so the host
// can point the core at local disk, an embed.FS-backed overlay, or an
// in-memory store uniformly (the same abstraction viant-linager's
// inspector packages use to read source trees).
type SourceLoader struct {
	service storage.Service
}

// NewSourceLoader returns a loader backed by afs's default service,
// which dispatches by URL scheme (file://, mem://, embed://, ...).
func NewSourceLoader() *SourceLoader {
	return &SourceLoader{service: afs.New()}
}

// NewSourceLoaderWithService allows tests to inject an in-memory
// storage.Service (e.g. afs's mem scheme) instead of touching disk.
func NewSourceLoaderWithService(service storage.Service) *SourceLoader {
	return &SourceLoader{service: service}
}

// Read fetches the bytes at url and returns them as source text.
func (l *SourceLoader) Read(ctx context.Context, url string) (string, error) {
	data, err := l.service.DownloadWithURL(ctx, url)
	if err != nil {
		return "", errors.Wrapf(err, "astdb: reading source %q", url)
	}
	return string(data), nil
}
