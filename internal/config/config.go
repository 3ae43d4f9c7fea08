package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Dev    bool   `envconfig:"DEV" default:"false"`
	DBPath string `envconfig:"DB_PATH" default:"data/taxiscout.db"`

	Workers      int           `envconfig:"WORKERS" default:"4"`
	IngestBuffer int           `envconfig:"INGEST_BUFFER" default:"256"`
	SendTimeout  time.Duration `envconfig:"SEND_TIMEOUT" default:"10s"`

	// Designated "our" group IDs, comma-separated.
	ServiceGroupIDs []int64 `envconfig:"SERVICE_GROUP_IDS"`

	MergeWindowsTTL  time.Duration `envconfig:"MERGE_WINDOWS_TTL" default:"24h"`
	NotificationsTTL time.Duration `envconfig:"NOTIFICATIONS_TTL" default:"48h"`
	CleanupInterval  time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1h"`

	// IANA timezone the drivers live in; quiet hours are evaluated in it.
	Timezone string `envconfig:"TIMEZONE" default:"Asia/Yekaterinburg"`

	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`
}

// New reads the configuration from the environment. Outside dev mode the
// Telegram token comes from SSM Parameter Store instead of the environment.
func New(ctx context.Context) (*Config, error) {
	res := &Config{}

	err := envconfig.Process("", res)
	if err != nil {
		return nil, fmt.Errorf("envconfig process: %w", err)
	}

	if !res.Dev {
		res.TelegramToken, err = getSSMToken(ctx)
		if err != nil {
			return nil, err
		}
	}

	if res.TelegramToken == "" {
		return nil, errors.New("telegram token is required")
	}

	return res, nil
}

func getSSMToken(ctx context.Context) (string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}
	ssmClient := ssm.NewFromConfig(cfg)

	param, err := ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String("/taxiscout-bot/prod/telegram-token"),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get SSM token: %w", err)
	}
	if param.Parameter.Value == nil {
		return "", errors.New("SSM Token not found")
	}

	return *param.Parameter.Value, nil
}
