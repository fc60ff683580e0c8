package config

const (
	defaultConfigPath            = "~/.config/platter/config.toml"
	defaultLibraryDir            = "~/Music/platter"
	defaultWorkDir               = "~/.local/share/platter/work"
	defaultLogDir                = "~/.local/share/platter/logs"
	defaultCacheDir              = "~/.cache/platter"
	defaultMusicBrainzBaseURL    = "https://musicbrainz.org/ws/2"
	defaultMusicBrainzUserAgent  = "platter/dev ( https://github.com/platter-audio/platter )"
	defaultMusicBrainzTimeout    = 15
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultAudioFormat           = "flac"
	defaultAudioBitrateKbps      = 320
	defaultAudioWorkers          = 4
	defaultArtworkMaxSize        = 1024
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 30
	musicBrainzUserAgentEnv      = "PLATTER_MUSICBRAINZ_USER_AGENT"
	musicBrainzBaseURLEnv        = "PLATTER_MUSICBRAINZ_URL"
	maxAudioWorkers              = 32
	minArtworkSize               = 64
	maxMusicBrainzTimeoutSeconds = 300
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			WorkDir:    defaultWorkDir,
			LogDir:     defaultLogDir,
			CacheDir:   defaultCacheDir,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:        defaultMusicBrainzBaseURL,
			UserAgent:      defaultMusicBrainzUserAgent,
			TimeoutSeconds: defaultMusicBrainzTimeout,
			CacheEnabled:   true,
		},
		Audio: Audio{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Format:        defaultAudioFormat,
			BitrateKbps:   defaultAudioBitrateKbps,
			Workers:       defaultAudioWorkers,
		},
		Artwork: Artwork{
			MaxSize: defaultArtworkMaxSize,
			Embed:   true,
		},
		Tags: map[string]string{
			"media":         "Vinyl",
			"source":        "Vinyl (Lossless)",
			"releasestatus": "official",
			"releasetype":   "album",
			"script":        "Latn",
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
