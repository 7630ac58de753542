package config

const (
	defaultVideoDir              = "~/.local/share/captioner/videos"
	defaultLogDir                = "~/.local/share/captioner/logs"
	defaultRecognitionBaseURL    = "https://api.assemblyai.com"
	defaultRecognitionModel      = "best"
	defaultRecognitionLanguage   = "tr"
	defaultUtteranceSplit        = 1.0
	defaultRecognitionTimeout    = 600
	defaultRecognitionPollSecond = 3
	defaultDownloaderBinary      = "yt-dlp"
	defaultServerBind            = "127.0.0.1:5000"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultDotEnvPath            = ".env"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			VideoDir: defaultVideoDir,
			LogDir:   defaultLogDir,
		},
		Recognition: Recognition{
			BaseURL:             defaultRecognitionBaseURL,
			Model:               defaultRecognitionModel,
			Language:            defaultRecognitionLanguage,
			Punctuate:           true,
			SmartFormat:         true,
			Paragraphs:          true,
			Utterances:          true,
			Diarize:             true,
			UtteranceSplit:      defaultUtteranceSplit,
			TimeoutSeconds:      defaultRecognitionTimeout,
			PollIntervalSeconds: defaultRecognitionPollSecond,
		},
		Download: Download{
			Binary: defaultDownloaderBinary,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
