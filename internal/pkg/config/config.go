package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=3030"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs bearer tokens; tokens are stateless, so rotating the
	// secret invalidates everything outstanding.
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Assets AssetConfig
	Upload UploadConfig
	SMTP   SMTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ecommerce"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// AssetConfig locates the asset store. UploadRoot must live under ServerRoot:
// stored refs are paths relative to ServerRoot, resolvable by the web server
// that serves the files.
type AssetConfig struct {
	ServerRoot string `env:"FILE_SERVER_ROOT, default=/usr/local"`
	UploadRoot string `env:"UPLOAD_ROOT_DIR,  default=/usr/local/uploads"`
}

// UploadConfig bounds multipart uploads. Every limit is enforced while the
// request body streams, before any byte reaches the asset store.
type UploadConfig struct {
	MaxFieldNameBytes  int `env:"UPLOAD_MAX_FIELD_NAME_BYTES,  default=50"`
	MaxFieldValueBytes int `env:"UPLOAD_MAX_FIELD_VALUE_BYTES, default=1"`
	MaxNonFileFields   int `env:"UPLOAD_MAX_FIELDS,            default=1"`
	MaxFileBytes       int `env:"UPLOAD_MAX_FILE_BYTES,        default=3000"`
	MaxFilesPerRequest int `env:"UPLOAD_MAX_FILES_PER_REQUEST, default=1"`
	MaxHeaderPairs     int `env:"UPLOAD_MAX_HEADER_PAIRS,      default=2000"`
	MaxGallerySize     int `env:"MAX_GALLERY_SIZE,             default=5"`
}

type SMTPConfig struct {
	Addr string `env:"SMTP_ADDR, default=localhost:25"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
