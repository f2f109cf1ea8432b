package docfx

import (
	"net/url"
	"strings"
)

// ParsedURL is the result of resolving an outline href. PageURL points at a
// rendered page on the local static server and is set only for relative
// hrefs; ExternalURL is an absolute link target and is set only when an
// external base URL is configured. A node with neither is a branch-only
// heading.
type ParsedURL struct {
	PageURL     string
	ExternalURL string
}

// urlResolver resolves outline hrefs for one TOC: relative hrefs against
// the local server and the TOC's directory, external links against the
// configured base URL.
type urlResolver struct {
	pageBase     *url.URL
	externalBase *url.URL
}

// newURLResolver builds a resolver for a TOC located at tocDir (relative to
// the served root, forward slashes, "" for the root itself). baseURL may be
// empty, in which case external links are omitted.
func newURLResolver(serverURL, baseURL, tocDir string) (*urlResolver, error) {
	server, err := url.Parse(serverURL)
	if err != nil {
		return nil, err
	}

	r := &urlResolver{pageBase: dirURL(server, tocDir)}
	if baseURL != "" {
		base, err := url.Parse(baseURL)
		if err != nil {
			return nil, err
		}
		r.externalBase = dirURL(base, tocDir)
	}
	return r, nil
}

// Resolve maps an href to its page and external URLs. An empty href yields
// the zero value; an absolute href never yields a page URL.
func (r *urlResolver) Resolve(href string) ParsedURL {
	if href == "" {
		return ParsedURL{}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ParsedURL{}
	}

	var external string
	if r.externalBase != nil {
		external = r.externalBase.ResolveReference(ref).String()
	}

	if ref.IsAbs() {
		return ParsedURL{ExternalURL: external}
	}
	return ParsedURL{
		PageURL:     r.pageBase.ResolveReference(ref).String(),
		ExternalURL: external,
	}
}

// dirURL returns u extended with dir as a directory reference (trailing
// slash), so relative hrefs resolve inside it.
func dirURL(u *url.URL, dir string) *url.URL {
	b := *u
	path := b.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	if dir != "" {
		path += strings.Trim(dir, "/") + "/"
	}
	b.Path = path
	return &b
}
