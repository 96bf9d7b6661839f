// Package config loads the i18nd daemon configuration from environment
// variables. All variables share the I18ND_ prefix; nested sections add their
// own prefix (I18ND_HTTP_, I18ND_TABLES_), while the logger and storage
// sections reuse the variable names of their packages (I18ND_LOG_LEVEL,
// I18ND_S3_BUCKET, I18ND_REDIS_URL, I18ND_DATABASE_CONN_URL).
package config
