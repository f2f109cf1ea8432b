package docfx

import "testing"

func TestURLResolverResolve(t *testing.T) {
	t.Parallel()

	const server = "http://127.0.0.1:8000/"

	tests := []struct {
		name    string
		baseURL string
		tocDir  string
		href    string
		want    ParsedURL
	}{
		{
			name: "empty href is a heading",
			href: "",
			want: ParsedURL{},
		},
		{
			name: "relative href at root",
			href: "a.html",
			want: ParsedURL{PageURL: "http://127.0.0.1:8000/a.html"},
		},
		{
			name:   "relative href in TOC directory",
			tocDir: "guide",
			href:   "a.html",
			want:   ParsedURL{PageURL: "http://127.0.0.1:8000/guide/a.html"},
		},
		{
			name:   "parent-relative href escapes the TOC directory",
			tocDir: "guide",
			href:   "../api/b.html",
			want:   ParsedURL{PageURL: "http://127.0.0.1:8000/api/b.html"},
		},
		{
			name:   "fragment is preserved",
			tocDir: "guide",
			href:   "a.html#install",
			want:   ParsedURL{PageURL: "http://127.0.0.1:8000/guide/a.html#install"},
		},
		{
			name:    "relative href with external base gets both",
			baseURL: "https://docs.example.com/",
			tocDir:  "guide",
			href:    "a.html",
			want: ParsedURL{
				PageURL:     "http://127.0.0.1:8000/guide/a.html",
				ExternalURL: "https://docs.example.com/guide/a.html",
			},
		},
		{
			name:    "absolute href is external only",
			baseURL: "https://docs.example.com/",
			href:    "https://other.example.com/page",
			want:    ParsedURL{ExternalURL: "https://other.example.com/page"},
		},
		{
			name: "absolute href without base is dropped",
			href: "https://other.example.com/page",
			want: ParsedURL{},
		},
		{
			name: "unparseable href is dropped",
			href: "%zz",
			want: ParsedURL{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := newURLResolver(server, tt.baseURL, tt.tocDir)
			if err != nil {
				t.Fatalf("newURLResolver() error = %v", err)
			}
			got := r.Resolve(tt.href)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.href, got, tt.want)
			}
		})
	}
}

func TestNewURLResolverBadServerURL(t *testing.T) {
	t.Parallel()

	if _, err := newURLResolver("http://%zz/", "", ""); err == nil {
		t.Error("newURLResolver() error = nil, want parse error")
	}
}
