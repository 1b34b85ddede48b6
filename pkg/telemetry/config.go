package telemetry

// Config controls tracing. The zero value disables it.
type Config struct {
	Enabled     bool    `env:"TELEMETRY_ENABLED" envDefault:"false"`
	ServiceName string  `env:"TELEMETRY_SERVICE_NAME" envDefault:"pharmakit"`
	Endpoint    string  `env:"TELEMETRY_ENDPOINT"`
	Insecure    bool    `env:"TELEMETRY_INSECURE" envDefault:"true"`
	SampleRatio float64 `env:"TELEMETRY_SAMPLE_RATIO" envDefault:"1"`
}
