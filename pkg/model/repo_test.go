package model

import "testing"

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		url     string
		want    RepoRef
		wantErr bool
	}{
		{"https://github.com/michaeljoseph/test_app.git", RepoRef{"michaeljoseph", "test_app"}, false},
		{"https://github.com/michaeljoseph/test_app", RepoRef{"michaeljoseph", "test_app"}, false},
		{"https://github.com/MichaelJoseph/Test_App.git/", RepoRef{"MichaelJoseph", "Test_App"}, false},
		{"http://github.example.com/org/repo.git", RepoRef{"org", "repo"}, false},
		{"ssh://git@github.com/org/repo.git", RepoRef{"org", "repo"}, false},
		{"ssh://git@github.com:22/org/repo", RepoRef{"org", "repo"}, false},
		{"git@github.com:michaeljoseph/test_app.git", RepoRef{"michaeljoseph", "test_app"}, false},
		{"github.com:org/repo", RepoRef{"org", "repo"}, false},
		{"  git@github.com:org/repo.git\n", RepoRef{"org", "repo"}, false},
		{"https://github.com/org", RepoRef{}, true},
		{"/local/path/repo.git", RepoRef{}, true},
		{"", RepoRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ParseRemoteURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRemoteURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRemoteURL(%q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseRepoRef(t *testing.T) {
	ref := ParseRepoRef("grokify/releaseconductor")
	if ref.Owner != "grokify" || ref.Name != "releaseconductor" {
		t.Errorf("ParseRepoRef() = %+v", ref)
	}
	if ref.FullName() != "grokify/releaseconductor" {
		t.Errorf("FullName() = %q", ref.FullName())
	}
	if !(RepoRef{}).IsZero() {
		t.Error("empty RepoRef should be zero")
	}
}
