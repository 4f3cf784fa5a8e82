package config

const (
	defaultRecognitionBaseURL = "http://www.google.com/speech-api/v2/recognize"
	defaultTranslationBaseURL = "https://translation.googleapis.com/language/translate/v2"
	defaultSampleRate         = 16000
	defaultRetries            = 3
	defaultConcurrency        = 10
	defaultFrameWidth         = 4096
	defaultMinRegionSeconds   = 0.5
	defaultMaxRegionSeconds   = 6.0
	defaultSilencePercentile  = 0.2
	defaultPadSeconds         = 0.25
	defaultCacheDir           = "~/.cache/subvox"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Recognition: Recognition{
			BaseURL:     defaultRecognitionBaseURL,
			SampleRate:  defaultSampleRate,
			Retries:     defaultRetries,
			Concurrency: defaultConcurrency,
		},
		Translation: Translation{
			BaseURL: defaultTranslationBaseURL,
		},
		Detection: Detection{
			FrameWidth:        defaultFrameWidth,
			MinRegionSeconds:  defaultMinRegionSeconds,
			MaxRegionSeconds:  defaultMaxRegionSeconds,
			SilencePercentile: defaultSilencePercentile,
		},
		Clips: Clips{
			PadBeforeSeconds: defaultPadSeconds,
			PadAfterSeconds:  defaultPadSeconds,
		},
		Cache: Cache{
			Enabled: true,
			Dir:     defaultCacheDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
