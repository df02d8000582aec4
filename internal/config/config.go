package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	Paypal    Paypal    `envPrefix:"PAYPAL_"`
	Braintree Braintree `envPrefix:"BRAINTREE_"`
	Auth      Auth      `envPrefix:"AUTH_"`
	Sync      Sync      `envPrefix:"SYNC_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite | mysql
	DSN    string `env:"DATABASE_URL" envDefault:"pharmacy.db"`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

type Braintree struct {
	Environment string `env:"ENVIRONMENT" envDefault:"sandbox"`
	MerchantID  string `env:"MERCHANT_ID"`
	PublicKey   string `env:"PUBLIC_KEY"`
	PrivateKey  string `env:"PRIVATE_KEY"`
}

type Auth struct {
	JWTSecret     string `env:"JWT_SECRET"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"24"`
}

type Sync struct {
	IntervalMinutes int `env:"INTERVAL_MINUTES" envDefault:"60"`
	MaxAttempts     int `env:"MAX_ATTEMPTS" envDefault:"3"`
}
