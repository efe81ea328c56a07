package config

type Config interface {
	EnvConfig
	EveConfig
	CorsConfig
}

type mainConfig struct {
	EnvVars
	Eve
	Cors
}

func New() Config {
	return mainConfig{}
}
