package model

import (
	"encoding/json"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    SemanticVersion
		wantErr bool
	}{
		{"0.0.1", NewVersion(0, 0, 1), false},
		{"1.2.3", NewVersion(1, 2, 3), false},
		{"10.20.30", NewVersion(10, 20, 30), false},
		{"0.0.0", VersionZero, false},
		{"v1.2.3", SemanticVersion{}, true},
		{"1.2", SemanticVersion{}, true},
		{"1.2.3.4", SemanticVersion{}, true},
		{"01.2.3", SemanticVersion{}, true},
		{"1.02.3", SemanticVersion{}, true},
		{"1.2.3-rc1", SemanticVersion{}, true},
		{"1.2.3+build", SemanticVersion{}, true},
		{"release", SemanticVersion{}, true},
		{"", SemanticVersion{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if IsVersion(tt.input) == tt.wantErr {
				t.Errorf("IsVersion(%q) = %v, want %v", tt.input, !tt.wantErr, !tt.wantErr)
			}
		})
	}
}

func TestSemanticVersion_Next(t *testing.T) {
	v := NewVersion(1, 2, 3)

	if got := v.NextMajor(); got != NewVersion(2, 0, 0) {
		t.Errorf("NextMajor() = %v, want 2.0.0", got)
	}
	if got := v.NextMinor(); got != NewVersion(1, 3, 0) {
		t.Errorf("NextMinor() = %v, want 1.3.0", got)
	}
	if got := v.NextPatch(); got != NewVersion(1, 2, 4) {
		t.Errorf("NextPatch() = %v, want 1.2.4", got)
	}
	if v != NewVersion(1, 2, 3) {
		t.Errorf("receiver was modified: %v", v)
	}
}

func TestSemanticVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"0.0.1", "0.0.1", 0},
		{"0.0.1", "0.0.2", -1},
		{"0.2.0", "0.10.0", -1},
		{"1.0.0", "0.99.99", 1},
		{"2.0.0", "10.0.0", -1},
		{"1.10.0", "1.9.9", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			a, _ := ParseVersion(tt.a)
			b, _ := ParseVersion(tt.b)
			if got := a.Compare(b); got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := b.Compare(a); got != -tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestSortAndMaxVersion(t *testing.T) {
	versions := []SemanticVersion{
		NewVersion(0, 10, 0),
		NewVersion(0, 2, 0),
		NewVersion(1, 0, 0),
		NewVersion(0, 0, 1),
	}

	if got := MaxVersion(versions); got != NewVersion(1, 0, 0) {
		t.Errorf("MaxVersion() = %v, want 1.0.0", got)
	}

	SortVersions(versions)
	want := []string{"0.0.1", "0.2.0", "0.10.0", "1.0.0"}
	for i, v := range versions {
		if v.String() != want[i] {
			t.Errorf("versions[%d] = %s, want %s", i, v, want[i])
		}
	}

	if got := MaxVersion(nil); !got.IsZero() {
		t.Errorf("MaxVersion(nil) = %v, want 0.0.0", got)
	}
}

func TestSemanticVersion_JSON(t *testing.T) {
	data, err := json.Marshal(ReleaseDecision{Current: NewVersion(0, 0, 1), Next: NewVersion(0, 1, 0)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["next"] != "0.1.0" {
		t.Errorf("next = %v, want \"0.1.0\"", decoded["next"])
	}

	var v SemanticVersion
	if err := json.Unmarshal([]byte(`"v1.0.0"`), &v); err == nil {
		t.Error("expected error decoding a prefixed version")
	}
}
