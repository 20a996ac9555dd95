package repository

import (
	"context"
	"fmt"

	"bootcamp-assistant/internal/models"
	"bootcamp-assistant/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

type reminderRepository struct {
	logger    *logrus.Entry
	dynamodb  utils.DynamoDbAPI
	tableName string
}

func NewReminderRepository(logger *logrus.Entry, dynamodb utils.DynamoDbAPI, tableName string) utils.ReminderRepository {
	return &reminderRepository{
		logger:    logger,
		dynamodb:  dynamodb,
		tableName: tableName,
	}
}

// GetReminderTargets returns every user who finished onboarding.
func (r *reminderRepository) GetReminderTargets(ctx context.Context) ([]*models.UserRecord, error) {
	var targets []*models.UserRecord

	var startKey map[string]types.AttributeValue
	for {
		result, err := r.dynamodb.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.tableName),
			FilterExpression: aws.String("attribute_exists(#name) AND #name <> :empty"), // "name" is a reserved keyword
			ExpressionAttributeNames: map[string]string{
				"#name": "name",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":empty": &types.AttributeValueMemberS{Value: ""},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			r.logger.WithError(err).Error("Failed to scan reminder targets from DynamoDB")
			return nil, fmt.Errorf("failed to scan reminder targets: %w", err)
		}

		for _, item := range result.Items {
			record, err := unmarshalRecord(item)
			if err != nil {
				r.logger.WithError(err).Error("Failed to unmarshal reminder target")
				continue
			}
			targets = append(targets, record)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	r.logger.WithField("count", len(targets)).Info("Successfully retrieved reminder targets")
	return targets, nil
}
