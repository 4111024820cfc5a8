package update

import (
	"errors"
	"testing"

	appErrors "vercheck/internal/errors"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMajor   int
		wantMinor   int
		wantPatch   int
		wantChannel Channel
		wantNumber  int
		wantErr     bool
	}{
		{
			name:      "simple version",
			input:     "1.2.3",
			wantMajor: 1, wantMinor: 2, wantPatch: 3,
		},
		{
			name:      "zero version",
			input:     "0.0.0",
			wantMajor: 0, wantMinor: 0, wantPatch: 0,
		},
		{
			name:      "large numbers",
			input:     "100.200.300",
			wantMajor: 100, wantMinor: 200, wantPatch: 300,
		},
		{
			name:      "multi digit components",
			input:     "12.34.56",
			wantMajor: 12, wantMinor: 34, wantPatch: 56,
		},
		{
			name:      "alpha",
			input:     "3.0.0-alpha.5",
			wantMajor: 3, wantMinor: 0, wantPatch: 0,
			wantChannel: ChannelAlpha, wantNumber: 5,
		},
		{
			name:      "beta with multi digit number",
			input:     "2.1.0-beta.12",
			wantMajor: 2, wantMinor: 1, wantPatch: 0,
			wantChannel: ChannelBeta, wantNumber: 12,
		},
		{name: "empty string", input: "", wantErr: true},
		{name: "missing patch", input: "1.2", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "extra parts", input: "1.2.3.4", wantErr: true},
		{name: "v prefix", input: "v1.2.3", wantErr: true},
		{name: "surrounding whitespace", input: " 1.2.3", wantErr: true},
		{name: "trailing newline", input: "1.2.3\n", wantErr: true},
		{name: "negative component", input: "1.-2.3", wantErr: true},
		{name: "empty component", input: "1..3", wantErr: true},
		{name: "unknown channel", input: "1.2.3-rc.1", wantErr: true},
		{name: "uppercase channel", input: "1.2.3-Alpha.1", wantErr: true},
		{name: "channel without number", input: "1.2.3-beta", wantErr: true},
		{name: "channel with empty number", input: "1.2.3-beta.", wantErr: true},
		{name: "channel with dotted number", input: "1.2.3-beta.1.2", wantErr: true},
		{name: "build metadata", input: "1.2.3+build", wantErr: true},
		{name: "dangling hyphen", input: "1.2.3-", wantErr: true},
		{name: "overflowing component", input: "99999999999999999999.0.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseVersion(%q) expected error, got %+v", tt.input, v)
				}
				if !errors.Is(err, ErrMalformedVersion) {
					t.Errorf("error %v does not match ErrMalformedVersion", err)
				}
				if !appErrors.IsCode(err, appErrors.CodeMalformedVersion) {
					t.Errorf("CodeOf(err) = %q, want %q", appErrors.CodeOf(err), appErrors.CodeMalformedVersion)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) unexpected error: %v", tt.input, err)
			}
			if v.Major != tt.wantMajor || v.Minor != tt.wantMinor || v.Patch != tt.wantPatch {
				t.Errorf("triple = %d.%d.%d, want %d.%d.%d",
					v.Major, v.Minor, v.Patch, tt.wantMajor, tt.wantMinor, tt.wantPatch)
			}
			if v.Channel != tt.wantChannel {
				t.Errorf("Channel = %v, want %v", v.Channel, tt.wantChannel)
			}
			if v.PreRelease != tt.wantNumber {
				t.Errorf("PreRelease = %d, want %d", v.PreRelease, tt.wantNumber)
			}
			if v.Raw != tt.input {
				t.Errorf("Raw = %q, want %q", v.Raw, tt.input)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		name string
		v    Version
		want string
	}{
		{
			name: "raw wins",
			v:    MustParseVersion("1.2.3-beta.4"),
			want: "1.2.3-beta.4",
		},
		{
			name: "canonical release",
			v:    Version{Major: 1, Minor: 2, Patch: 3},
			want: "1.2.3",
		},
		{
			name: "canonical alpha",
			v:    Version{Major: 1, Minor: 0, Patch: 0, Channel: ChannelAlpha, PreRelease: 2},
			want: "1.0.0-alpha.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChannelString(t *testing.T) {
	for ch, want := range map[Channel]string{
		ChannelRelease: "release",
		ChannelAlpha:   "alpha",
		ChannelBeta:    "beta",
	} {
		if got := ch.String(); got != want {
			t.Errorf("Channel(%d).String() = %q, want %q", ch, got, want)
		}
	}
}

func TestMustParseVersionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseVersion should panic on malformed input")
		}
	}()
	MustParseVersion("not-a-version")
}
