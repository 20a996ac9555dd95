package main

import (
	"context"
	"errors"
	"os"
	_ "time/tzdata"

	"bootcamp-assistant/internal/dispatcher"
	"bootcamp-assistant/internal/repository"
	"bootcamp-assistant/internal/utils"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/scheduler"
	"github.com/sirupsen/logrus"
)

const (
	SEVERITY    = "severity"
	MESSAGE     = "message"
	TIMESTAMP   = "timestamp"
	COMPONENT   = "component"
	SERVICENAME = "bootcamp-handler"
)

type EnvVars struct {
	channelSecret        string
	channelToken         string
	userTableName        string
	timezone             string
	digestTime           string
	reminderFunctionName string
	reminderFunctionArn  string
	schedulerRoleArn     string
}

func getEnvironmentVariables() (envVars *EnvVars, err error) {
	channelSecret := os.Getenv("CHANNEL_SECRET")
	if channelSecret == "" {
		return nil, errors.New("CHANNEL_SECRET is not set")
	}

	channelToken := os.Getenv("CHANNEL_TOKEN")
	if channelToken == "" {
		return nil, errors.New("CHANNEL_TOKEN is not set")
	}

	userTableName := os.Getenv("USER_TABLE_NAME")
	if userTableName == "" {
		return nil, errors.New("USER_TABLE_NAME is not set")
	}

	return &EnvVars{
		channelSecret:        channelSecret,
		channelToken:         channelToken,
		userTableName:        userTableName,
		timezone:             utils.EnvOrDefault("TIMEZONE", utils.DefaultTimezone),
		digestTime:           utils.EnvOrDefault("DIGEST_TIME", defaultDigestTime),
		reminderFunctionName: os.Getenv("REMINDER_FUNCTION_NAME"),
		reminderFunctionArn:  os.Getenv("REMINDER_FUNCTION_ARN"),
		schedulerRoleArn:     os.Getenv("SCHEDULER_ROLE_ARN"),
	}, nil
}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  TIMESTAMP,
			logrus.FieldKeyLevel: SEVERITY,
			logrus.FieldKeyMsg:   MESSAGE,
		},
	})
	logger := logrus.WithField(COMPONENT, SERVICENAME)

	envVars, err := getEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Error("Failed to get environment variables")
		panic(err)
	}

	policy, err := utils.LedgerPolicyFromEnv()
	if err != nil {
		logger.WithError(err).Error("Failed to read ledger policy")
		panic(err)
	}

	clock, err := utils.NewClock(envVars.timezone)
	if err != nil {
		logger.WithError(err).Error("Failed to load timezone")
		panic(err)
	}

	linebotClient, err := utils.NewLineBotClient(envVars.channelSecret, envVars.channelToken)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize LINE Bot")
		panic(err)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(err)
	}
	dynamodbClient := dynamodb.NewFromConfig(cfg)

	userRepo := repository.NewUserRecordRepository(logger, dynamodbClient, envVars.userTableName, clock)
	d := dispatcher.New(logger, userRepo, clock, policy)

	handler, err := NewHandler(logger, envVars, linebotClient, d, awslambda.NewFromConfig(cfg), scheduler.NewFromConfig(cfg))
	if err != nil {
		logger.WithError(err).Error("Failed to create handler")
		panic(err)
	}

	lambda.Start(handler.EventHandler)
}
