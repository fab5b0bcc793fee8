package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the loaded configuration and reports every problem at once
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			errs = append(errs, ValidationError{"DB_HOST", "is required for postgres"})
		}
		if cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_NAME", "is required for postgres"})
		}
		if cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"db_password", "secret is required for postgres"})
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "is required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.RedisURL == "" && cfg.RedisHost == "" {
		errs = append(errs, ValidationError{"REDIS_HOST", "REDIS_HOST or REDIS_URL is required"})
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"jwt_secret", "secret is required"})
	}

	if cfg.OpenAIMaxTokens <= 0 {
		errs = append(errs, ValidationError{"OPENAI_MAX_TOKENS", "must be positive"})
	}
	if cfg.DraftTTL <= 0 {
		errs = append(errs, ValidationError{"ANALYSIS_DRAFT_TTL", "must be positive"})
	}
	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		errs = append(errs, ValidationError{"AWS_REGION", "is required when S3_BUCKET_NAME is set"})
	}

	if len(errs) > 0 {
		lines := make([]string, len(errs))
		for i, e := range errs {
			lines[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
	}

	return nil
}
