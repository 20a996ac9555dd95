package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bootcamp-assistant/internal/dispatcher"
	"bootcamp-assistant/internal/models"
	"bootcamp-assistant/internal/utils"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/scheduler"
	"github.com/aws/aws-sdk-go-v2/service/scheduler/types"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/sirupsen/logrus"
)

const (
	defaultDigestTime  = "07:00"
	scheduleGroupName  = "default"
	scheduleNamePrefix = "bootcamp-digest-"
)

type LambdaAPI interface {
	Invoke(ctx context.Context, params *awslambda.InvokeInput, optFns ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error)
}

type SchedulerAPI interface {
	GetSchedule(ctx context.Context, params *scheduler.GetScheduleInput, optFns ...func(*scheduler.Options)) (*scheduler.GetScheduleOutput, error)
	DeleteSchedule(ctx context.Context, params *scheduler.DeleteScheduleInput, optFns ...func(*scheduler.Options)) (*scheduler.DeleteScheduleOutput, error)
	CreateSchedule(ctx context.Context, params *scheduler.CreateScheduleInput, optFns ...func(*scheduler.Options)) (*scheduler.CreateScheduleOutput, error)
}

type Handler struct {
	logger          *logrus.Entry
	envVars         *EnvVars
	linebotClient   utils.LinebotAPI
	router          *dispatcher.EventRouter
	lambdaClient    LambdaAPI
	schedulerClient SchedulerAPI
}

func NewHandler(logger *logrus.Entry, envVars *EnvVars, linebotClient utils.LinebotAPI, d *dispatcher.Dispatcher, lambdaClient LambdaAPI, schedulerClient SchedulerAPI) (*Handler, error) {
	h := &Handler{
		logger:          logger,
		envVars:         envVars,
		linebotClient:   linebotClient,
		router:          dispatcher.NewEventRouter(logger, linebotClient, d),
		lambdaClient:    lambdaClient,
		schedulerClient: schedulerClient,
	}
	d.OnOnboarded(h.onOnboarded)
	return h, nil
}

func (h *Handler) EventHandler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	messageEvents, err := h.RequestParser(request)
	if err != nil {
		h.logger.WithError(err).Error("Failed to parse request")
		return events.APIGatewayProxyResponse{
			StatusCode: 400,
			Body:       "Bad Request",
		}, nil
	}

	h.router.Route(ctx, messageEvents)

	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Body:       "OK",
	}, nil
}

func (h *Handler) RequestParser(request events.APIGatewayProxyRequest) ([]*linebot.Event, error) {
	req, err := http.NewRequest(http.MethodPost, "", bytes.NewBufferString(request.Body))
	if err != nil {
		return nil, err
	}

	req.Header = make(http.Header)
	for key, value := range request.Headers {
		req.Header.Set(key, value)
	}

	messageEvents, err := h.linebotClient.ParseRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to parse webhook request: %w", err)
	}
	return messageEvents, nil
}

// onOnboarded sets up the daily digest and sends the first one right away.
// Failures only get logged; the user already has their reply.
func (h *Handler) onOnboarded(ctx context.Context, record *models.UserRecord) {
	if err := h.scheduleDigest(ctx, record.UserID); err != nil {
		h.logger.WithError(err).WithField("user_id", record.UserID).Error("Failed to schedule daily digest")
	}
	h.triggerImmediateDigest(ctx, record.UserID)
}

func (h *Handler) triggerImmediateDigest(ctx context.Context, userID string) {
	if h.envVars.reminderFunctionName == "" {
		return
	}

	payload, err := json.Marshal(map[string]string{"userId": userID})
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal lambda invoke payload")
		return
	}

	_, err = h.lambdaClient.Invoke(ctx, &awslambda.InvokeInput{
		FunctionName:   aws.String(h.envVars.reminderFunctionName),
		InvocationType: lambdatypes.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to invoke reminder lambda")
		return
	}

	h.logger.WithField("user_id", userID).Info("Triggered immediate digest")
}

func (h *Handler) scheduleDigest(ctx context.Context, userID string) error {
	if h.envVars.reminderFunctionArn == "" || h.envVars.schedulerRoleArn == "" {
		return nil
	}

	expression, err := dailyCronExpression(h.envVars.digestTime)
	if err != nil {
		return err
	}

	scheduleName := scheduleNamePrefix + userID
	if err := h.deleteExistingSchedule(ctx, scheduleName); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"userId": userID})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	output, err := h.schedulerClient.CreateSchedule(ctx, &scheduler.CreateScheduleInput{
		Name:      aws.String(scheduleName),
		GroupName: aws.String(scheduleGroupName),
		FlexibleTimeWindow: &types.FlexibleTimeWindow{
			Mode: types.FlexibleTimeWindowModeOff,
		},
		ScheduleExpression:         aws.String(expression),
		ScheduleExpressionTimezone: aws.String(h.envVars.timezone),
		Target: &types.Target{
			Arn:     aws.String(h.envVars.reminderFunctionArn),
			RoleArn: aws.String(h.envVars.schedulerRoleArn),
			Input:   aws.String(string(payload)),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":      userID,
		"scheduleName": scheduleName,
		"expression":   expression,
		"scheduleArn":  aws.ToString(output.ScheduleArn),
	}).Info("Created daily digest schedule")
	return nil
}

func (h *Handler) deleteExistingSchedule(ctx context.Context, scheduleName string) error {
	_, err := h.schedulerClient.GetSchedule(ctx, &scheduler.GetScheduleInput{
		Name:      aws.String(scheduleName),
		GroupName: aws.String(scheduleGroupName),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to look up schedule: %w", err)
	}

	if _, err := h.schedulerClient.DeleteSchedule(ctx, &scheduler.DeleteScheduleInput{
		Name:      aws.String(scheduleName),
		GroupName: aws.String(scheduleGroupName),
	}); err != nil {
		return fmt.Errorf("failed to delete existing schedule: %w", err)
	}
	return nil
}

// dailyCronExpression turns "HH:MM" into an EventBridge cron that fires every
// day at that wall-clock time in the schedule's timezone.
func dailyCronExpression(digestTime string) (string, error) {
	t, err := time.Parse("15:04", digestTime)
	if err != nil {
		return "", fmt.Errorf("invalid DIGEST_TIME %q: %w", digestTime, err)
	}
	return fmt.Sprintf("cron(%d %d * * ? *)", t.Minute(), t.Hour()), nil
}
