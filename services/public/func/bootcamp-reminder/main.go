package main

import (
	"context"
	"errors"
	"os"
	_ "time/tzdata"

	"bootcamp-assistant/internal/repository"
	"bootcamp-assistant/internal/utils"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"
)

const (
	SEVERITY    = "severity"
	MESSAGE     = "message"
	TIMESTAMP   = "timestamp"
	COMPONENT   = "component"
	SERVICENAME = "bootcamp-reminder"
)

type EnvVars struct {
	channelSecret string
	channelToken  string
	userTableName string
	timezone      string
	openaiApiKey  string
	openaiBaseUrl string
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
		channelSecret: channelSecret,
		channelToken:  channelToken,
		userTableName: userTableName,
		timezone:      utils.EnvOrDefault("TIMEZONE", utils.DefaultTimezone),
		openaiApiKey:  os.Getenv("OPENAI_API_KEY"),
		openaiBaseUrl: os.Getenv("OPENAI_BASE_URL"),
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

	// coach notes are optional
	var openaiClient utils.OpenaiAPI
	if envVars.openaiApiKey != "" {
		openaiClient, err = utils.NewOpenAIClient(envVars.openaiApiKey, envVars.openaiBaseUrl)
		if err != nil {
			logger.WithError(err).Error("Failed to initialize OpenAI client")
			panic(err)
		}
	}

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(err)
	}
	dynamodbClient := dynamodb.NewFromConfig(cfg)

	userRepo := repository.NewUserRecordRepository(logger, dynamodbClient, envVars.userTableName, clock)
	reminderRepo := repository.NewReminderRepository(logger, dynamodbClient, envVars.userTableName)

	handler, err := NewHandler(logger, linebotClient, openaiClient, userRepo, reminderRepo, clock)
	if err != nil {
		logger.WithError(err).Error("Failed to create handler")
		panic(err)
	}

	lambda.Start(handler.HandleRequest)
}
