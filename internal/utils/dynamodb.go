package utils

import (
	"context"

	"bootcamp-assistant/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoDbAPI defines the DynamoDB operations needed by our application
type DynamoDbAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// UserRecordRepository loads and persists user records. Update is the only
// mutation path handlers should use; it serializes concurrent changes to one user.
type UserRecordRepository interface {
	Load(ctx context.Context) (map[string]*models.UserRecord, error)
	Save(ctx context.Context, users map[string]*models.UserRecord) error
	InitUser(ctx context.Context, userID string) (*models.UserRecord, error)
	Get(ctx context.Context, userID string) (*models.UserRecord, error)
	Update(ctx context.Context, userID string, mutate func(*models.UserRecord) error) (*models.UserRecord, error)
}

// ReminderRepository lists the users who should receive the daily digest
type ReminderRepository interface {
	GetReminderTargets(ctx context.Context) ([]*models.UserRecord, error)
}
