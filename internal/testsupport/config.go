package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"platter/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.MusicBrainz.UserAgent = "platter-test/0 ( test@example.com )"
	cfgVal.Audio.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMusicBrainzURL points the config at a test server.
func WithMusicBrainzURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.MusicBrainz.BaseURL = url
	}
}

// WithFormat sets the library output format.
func WithFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Audio.Format = format
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		for _, name := range names {
			InstallScript(b.t, b.baseDir, name, "#!/bin/sh\nexit 0\n")
		}
	}
}

// InstallScript writes an executable script named name into baseDir/bin and
// prepends that directory to PATH for the duration of the test.
func InstallScript(t testing.TB, baseDir, name, script string) string {
	t.Helper()

	binDir := filepath.Join(baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}

	oldPath := os.Getenv("PATH")
	if filepath.SplitList(oldPath)[0] != binDir {
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			t.Fatalf("set PATH: %v", err)
		}
		t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
	return target
}

// FakeFFmpegScript is a stand-in for ffmpeg that writes its argument list to
// the last argument when that argument is a path. Version probes print a
// banner instead.
const FakeFFmpegScript = `#!/bin/sh
for last; do :; done
case "$last" in
*/*) printf '%s\n' "$*" > "$last" ;;
*) echo "ffmpeg version 7.0-test" ;;
esac
`

// FakeFFprobeScript returns a stand-in for ffprobe that reports one stereo
// FLAC stream of the given duration in seconds, for example "540.000000".
func FakeFFprobeScript(durationSeconds string) string {
	return `#!/bin/sh
cat <<'JSON'
{"streams":[{"index":0,"codec_name":"flac","codec_type":"audio","sample_rate":"44100","channels":2,"duration":"` + durationSeconds + `"}],
 "format":{"filename":"capture.flac","nb_streams":1,"duration":"` + durationSeconds + `","size":"1000","format_name":"flac"}}
JSON
`
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LibraryDir)
}
