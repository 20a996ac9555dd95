package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bootcamp-assistant/internal/models"
	"bootcamp-assistant/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

const maxUpdateAttempts = 5

type userRecordRepository struct {
	logger    *logrus.Entry
	dynamodb  utils.DynamoDbAPI
	tableName string
	clock     utils.Clock
}

// NewUserRecordRepository stores one item per user, keyed by userId. Writes from
// Update are conditioned on the item's version so concurrent events cannot
// overwrite each other.
func NewUserRecordRepository(logger *logrus.Entry, dynamodb utils.DynamoDbAPI, tableName string, clock utils.Clock) utils.UserRecordRepository {
	return &userRecordRepository{
		logger:    logger,
		dynamodb:  dynamodb,
		tableName: tableName,
		clock:     clock,
	}
}

func (r *userRecordRepository) Load(ctx context.Context) (map[string]*models.UserRecord, error) {
	users := make(map[string]*models.UserRecord)

	var startKey map[string]types.AttributeValue
	for {
		result, err := r.dynamodb.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			// storage trouble reads as "no users yet"
			r.logger.WithError(err).Warn("Failed to scan user records, treating as empty")
			return map[string]*models.UserRecord{}, nil
		}

		for _, item := range result.Items {
			record, err := unmarshalRecord(item)
			if err != nil {
				r.logger.WithError(err).Warn("Skipping unreadable user record")
				continue
			}
			users[record.UserID] = record
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return users, nil
}

// Save replaces the table contents with users. Each put is conditioned on the
// version the record was loaded with, so a stale mapping fails instead of
// overwriting a newer Update. Items missing from users are deleted.
func (r *userRecordRepository) Save(ctx context.Context, users map[string]*models.UserRecord) error {
	existing, err := r.scanKeys(ctx)
	if err != nil {
		return err
	}

	for userID, record := range users {
		record.UserID = userID
		prevVersion := record.Version
		record.Version = prevVersion + 1
		item, err := r.marshalRecord(record)
		if err != nil {
			record.Version = prevVersion
			return err
		}

		_, err = r.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      item,
			ExpressionAttributeNames: map[string]string{
				"#version": "version",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(prevVersion, 10)},
			},
			ConditionExpression: aws.String("attribute_not_exists(#version) OR #version = :version"),
		})
		if err != nil {
			record.Version = prevVersion
			if isConditionFailed(err) {
				r.logger.WithField("userId", userID).Warn("User record changed since it was loaded")
				return fmt.Errorf("%w: record %s changed since it was loaded", models.ErrStorageUnavailable, userID)
			}
			r.logger.WithError(err).WithField("userId", userID).Error("Failed to save user record to DynamoDB")
			return fmt.Errorf("%w: failed to save user record: %v", models.ErrStorageUnavailable, err)
		}
	}

	for _, userID := range existing {
		if _, ok := users[userID]; ok {
			continue
		}
		if _, err := r.dynamodb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"userId": &types.AttributeValueMemberS{Value: userID},
			},
		}); err != nil {
			r.logger.WithError(err).WithField("userId", userID).Error("Failed to delete user record from DynamoDB")
			return fmt.Errorf("%w: failed to delete user record: %v", models.ErrStorageUnavailable, err)
		}
		r.logger.WithField("userId", userID).Info("Deleted user record")
	}
	return nil
}

func (r *userRecordRepository) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.dynamodb.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(r.tableName),
			ProjectionExpression: aws.String("userId"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			r.logger.WithError(err).Error("Failed to scan user record keys")
			return nil, fmt.Errorf("%w: failed to scan user records: %v", models.ErrStorageUnavailable, err)
		}
		for _, item := range result.Items {
			if v, ok := item["userId"].(*types.AttributeValueMemberS); ok {
				keys = append(keys, v.Value)
			}
		}
		if len(result.LastEvaluatedKey) == 0 {
			return keys, nil
		}
		startKey = result.LastEvaluatedKey
	}
}

func (r *userRecordRepository) InitUser(ctx context.Context, userID string) (*models.UserRecord, error) {
	record := models.NewUserRecord(userID, utils.Today(r.clock))
	record.Version = 1
	item, err := r.marshalRecord(record)
	if err != nil {
		return nil, err
	}

	_, err = r.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(userId)"),
	})
	if err == nil {
		r.logger.WithField("userId", userID).Info("Created user record")
		return record, nil
	}
	if !isConditionFailed(err) {
		r.logger.WithError(err).Error("Failed to create user record")
		return nil, fmt.Errorf("%w: failed to create user record: %v", models.ErrStorageUnavailable, err)
	}

	return r.Get(ctx, userID)
}

func (r *userRecordRepository) Get(ctx context.Context, userID string) (*models.UserRecord, error) {
	result, err := r.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to get user record from DynamoDB")
		return nil, fmt.Errorf("%w: failed to get user record: %v", models.ErrStorageUnavailable, err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownUser, userID)
	}

	record, err := unmarshalRecord(result.Item)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *userRecordRepository) Update(ctx context.Context, userID string, mutate func(*models.UserRecord) error) (*models.UserRecord, error) {
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		record, err := r.Get(ctx, userID)
		if err != nil {
			return nil, err
		}

		prevVersion := record.Version
		if err := mutate(record); err != nil {
			return nil, err
		}
		record.Version = prevVersion + 1

		item, err := r.marshalRecord(record)
		if err != nil {
			return nil, err
		}

		input := &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      item,
			ExpressionAttributeNames: map[string]string{
				"#version": "version",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(prevVersion, 10)},
			},
			ConditionExpression: aws.String("#version = :version"),
		}
		if prevVersion == 0 {
			// records written before versioning existed
			input.ConditionExpression = aws.String("attribute_not_exists(#version) OR #version = :version")
		}

		_, err = r.dynamodb.PutItem(ctx, input)
		if err == nil {
			return record, nil
		}
		if !isConditionFailed(err) {
			r.logger.WithError(err).Error("Failed to update user record")
			return nil, fmt.Errorf("%w: failed to update user record: %v", models.ErrStorageUnavailable, err)
		}

		r.logger.WithFields(logrus.Fields{
			"userId":  userID,
			"attempt": attempt,
			"version": prevVersion,
		}).Warn("Concurrent update detected, retrying")
	}

	return nil, fmt.Errorf("%w: gave up updating %s after %d attempts", models.ErrStorageUnavailable, userID, maxUpdateAttempts)
}

func (r *userRecordRepository) marshalRecord(record *models.UserRecord) (map[string]types.AttributeValue, error) {
	record.UpdatedAt = r.clock.Now().UTC().Format(time.RFC3339)
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		r.logger.WithError(err).Error("Failed to marshal user record")
		return nil, fmt.Errorf("failed to marshal user record: %w", err)
	}
	return item, nil
}

func unmarshalRecord(item map[string]types.AttributeValue) (*models.UserRecord, error) {
	var record models.UserRecord
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user record: %w", err)
	}
	record.Normalize()
	return &record, nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
