package config

import "github.com/Klingon-tech/klingseed/internal/wallet"

// Default returns the built-in configuration.
func Default() *Config {
	kdf := wallet.DefaultKDFParams()
	return &Config{
		DataDir:   DefaultDataDir(),
		Locale:    wallet.DefaultLocale,
		WordCount: wallet.TwentyFour,
		Vault: VaultConfig{
			KDFMemory:  kdf.Memory,
			KDFTime:    kdf.Time,
			KDFThreads: kdf.Threads,
		},
		Log: LogConfig{
			Level: "warn",
			JSON:  false,
		},
	}
}
