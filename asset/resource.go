// Package asset provides access to scene source files. Scene files may
// include other files using paths relative to the including file; includes
// resolve against local directories or against remote http(s) locations.
package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Resource is an open stream to a local file or a remote http(s) document.
// Callers must Close it once done.
type Resource struct {
	io.ReadCloser
	location *url.URL
}

// Path returns the resolved location of the resource.
func (r *Resource) Path() string {
	return r.location.String()
}

// Name returns the last element of the resource path.
func (r *Resource) Name() string {
	if r.IsRemote() {
		return path.Base(r.location.Path)
	}
	return filepath.Base(r.location.Path)
}

// IsRemote returns true if the resource is fetched over http(s).
func (r *Resource) IsRemote() bool {
	return r.location.Scheme != ""
}

// Open a resource. Paths without a scheme are treated as local files. If
// relTo is not nil, relative paths are resolved against the directory
// containing relTo; this also applies to remote parents.
func Open(pathToResource string, relTo *Resource) (*Resource, error) {
	location, err := resolve(pathToResource, relTo)
	if err != nil {
		return nil, err
	}

	var stream io.ReadCloser
	switch location.Scheme {
	case "":
		if stream, err = os.Open(filepath.Clean(location.Path)); err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(location.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", location.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", location.String(), resp.StatusCode)
		}
		stream = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", location.Scheme)
	}

	return &Resource{ReadCloser: stream, location: location}, nil
}

// Wrap an in-memory stream into a resource. Relative includes are resolved
// against name.
func FromStream(name string, source io.Reader) *Resource {
	location, err := url.Parse(filepath.ToSlash(name))
	if err != nil {
		location = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		location:   location,
	}
}

func resolve(pathToResource string, relTo *Resource) (*url.URL, error) {
	location, err := url.Parse(strings.ReplaceAll(pathToResource, `\`, `/`))
	if err != nil {
		return nil, err
	}
	if location.Scheme != "" || relTo == nil {
		return location, nil
	}

	// Remote parent: resolve using URL reference rules
	if relTo.IsRemote() {
		return relTo.location.ResolveReference(&url.URL{Path: location.Path}), nil
	}

	if filepath.IsAbs(location.Path) {
		return location, nil
	}
	parentDir, err := filepath.Abs(filepath.Dir(relTo.location.Path))
	if err != nil {
		return nil, fmt.Errorf("resource: could not detect abs path for %s; %s", relTo.location.String(), err.Error())
	}
	return &url.URL{Path: filepath.Join(parentDir, location.Path)}, nil
}
