package rules

import "strings"

// Metadata is a read-only view over one scanned unit. The scanner builds it
// once per file and every configured rule reads it.
type Metadata struct {
	path     string
	contents string
	managed  bool
}

// NewMetadata builds a Metadata. managed marks units whose documentation is
// maintained by an external source (e.g. a managed package).
func NewMetadata(path, contents string, managed bool) Metadata {
	return Metadata{path: path, contents: contents, managed: managed}
}

func (m Metadata) Path() string        { return m.path }
func (m Metadata) RawContents() string { return m.contents }
func (m Metadata) IsManaged() bool     { return m.managed }

// Name returns the bare file name: everything after the last path delimiter
// up to the first dot. "objects/My_Object.object-meta.xml" -> "My_Object".
func (m Metadata) Name() string {
	base := m.path[strings.LastIndexAny(m.path, `/\`)+1:]
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}
