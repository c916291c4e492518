package s3archive

// Config is the environment-driven archive configuration. An empty bucket
// disables archiving.
type Config struct {
	Bucket          string `env:"ARCHIVE_S3_BUCKET"`
	Prefix          string `env:"ARCHIVE_S3_PREFIX" envDefault:"usage-periods"`
	Region          string `env:"ARCHIVE_S3_REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"ARCHIVE_S3_ENDPOINT"` // S3-compatible services such as MinIO
	AccessKeyID     string `env:"ARCHIVE_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"ARCHIVE_S3_SECRET_ACCESS_KEY"`
	ForcePathStyle  bool   `env:"ARCHIVE_S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool { return c.Bucket != "" }
