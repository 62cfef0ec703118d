package utils

import (
	"context"
	urlutils "net/url"
	"time"

	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/secrets"
	"github.com/sethvargo/go-envconfig"
)

//PublicAPIConfig Configuration of the unauthenticated endpoints.
type PublicAPIConfig struct {
	CacheTTL time.Duration `env:"PUBLIC_CACHE_TTL, default=10s"`
}

//ExportConfig Configuration of the submissions ZIP export.
type ExportConfig struct {
	DownloadURLBase string        `env:"EXPORT_DOWNLOAD_URL_BASE, required"`
	TokenTTL        time.Duration `env:"EXPORT_TOKEN_TTL, default=1h"`
	TokenKey        []byte
}

//LoadPublicAPIConfig Load public API config.
func LoadPublicAPIConfig(ctx context.Context) (*PublicAPIConfig, error) {
	logger := logging.FromContext(ctx)

	var publicAPIConfig PublicAPIConfig
	if err := envconfig.Process(ctx, &publicAPIConfig); err != nil {
		logger.Debugf("Could not load PublicAPIConfig: %v", err)
		return nil, err
	}

	return &publicAPIConfig, nil
}

//LoadExportConfig Load export config.
func LoadExportConfig(ctx context.Context) (*ExportConfig, error) {
	logger := logging.FromContext(ctx)

	var exportConfig ExportConfig
	if err := envconfig.Process(ctx, &exportConfig); err != nil {
		logger.Debugf("Could not load ExportConfig: %v", err)
		return nil, err
	}

	// signing key comes from secrets manager; requires special access rights

	secretsClient := secrets.Client{}

	bytes, err := secretsClient.Get("export-token-key")
	if err != nil {
		logger.Debugf("Could not load ExportConfig: %v", err)
		return nil, err
	}

	exportConfig.TokenKey = bytes

	return &exportConfig, nil
}

//GetDownloadURL Gets configured download url with given path set. It does URL verification but it also ensures that a valid URL comes
//out of it, no matter if the original one (passed to ENV) included some path or trailing slash etc.
func (c *ExportConfig) GetDownloadURL(path string) string {
	url, err := urlutils.Parse(c.DownloadURLBase)
	if err != nil {
		panic(err)
	}

	url.Path = path
	return url.String()
}
