package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:    "info",
			DownloadDir: "~/.jobrelay/downloads",
		},
		Telegram: TelegramConfig{},
		Keywords: KeywordsConfig{
			Words: defaultKeywords(),
		},
		Bridge: BridgeConfig{
			TextURL:            "http://127.0.0.1:3000/send-text",
			FileURL:            "http://127.0.0.1:3000/send-file",
			TextTimeoutSeconds: 10,
			FileTimeoutSeconds: 20,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    9090,
		},
	}
}

func defaultKeywords() FlexStringList {
	return FlexStringList{
		"job", "hiring", "opening", "shortlist", "shortlisted",
		"interview", "vacancy", "walk-in", "requirement",
	}
}
