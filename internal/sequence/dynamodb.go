package sequence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the part of *dynamodb.Client used by DynamoStore.
type DynamoAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

type dynamoCounter struct {
	CollectionName string `dynamodbav:"collection_name"`
	SequenceValue  int64  `dynamodbav:"sequence_value"`
}

// tableWaitTimeout bounds how long EnsureTable waits for a new table to become ACTIVE.
const tableWaitTimeout = 2 * time.Minute

// DynamoStore keeps one item per sequence in a table keyed by collection_name (S).
type DynamoStore struct {
	client DynamoAPI
	table  string

	// waitDelay overrides the waiter polling delay; zero keeps the SDK default.
	waitDelay time.Duration
}

// NewDynamoClient builds a client from the default AWS credential chain. endpoint
// overrides the service URL (DynamoDB Local, LocalStack) when set.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// NewDynamoStore returns a store on table.
func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

func (s *DynamoStore) key(name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"collection_name": &types.AttributeValueMemberS{Value: name},
	}
}

// EnsureTable creates the counter table (on-demand billing) when it does not exist and
// returns once the table is ACTIVE.
func (s *DynamoStore) EnsureTable(ctx context.Context) error {
	out, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	if err == nil {
		if out.Table != nil && out.Table.TableStatus == types.TableStatusActive {
			return nil
		}
		return s.waitActive(ctx)
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return err
	}

	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("collection_name"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("collection_name"), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	var inUse *types.ResourceInUseException
	if err != nil && !errors.As(err, &inUse) {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return s.waitActive(ctx)
}

func (s *DynamoStore) waitActive(ctx context.Context) error {
	waiter := dynamodb.NewTableExistsWaiter(s.client, func(o *dynamodb.TableExistsWaiterOptions) {
		if s.waitDelay > 0 {
			o.MinDelay = s.waitDelay
			o.MaxDelay = s.waitDelay
		}
	})
	err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)}, tableWaitTimeout)
	if err != nil {
		return fmt.Errorf("wait for table %s: %w", s.table, err)
	}
	return nil
}

// Increment uses ADD, which creates the item and the attribute at zero when missing.
func (s *DynamoStore) Increment(ctx context.Context, name string) (int64, error) {
	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.table),
		Key:                      s.key(name),
		UpdateExpression:         aws.String("ADD #value :one"),
		ExpressionAttributeNames: map[string]string{"#value": "sequence_value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}
	return sequenceValue(out.Attributes)
}

func (s *DynamoStore) CompareAndSet(ctx context.Context, name string, oldValue, newValue int64) (bool, error) {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.table),
		Key:                      s.key(name),
		UpdateExpression:         aws.String("SET #value = :new"),
		ConditionExpression:      aws.String("#value = :old"),
		ExpressionAttributeNames: map[string]string{"#value": "sequence_value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":old": &types.AttributeValueMemberN{Value: strconv.FormatInt(oldValue, 10)},
			":new": &types.AttributeValueMemberN{Value: strconv.FormatInt(newValue, 10)},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *DynamoStore) Ensure(ctx context.Context, name string) (bool, error) {
	item, err := attributevalue.MarshalMap(dynamoCounter{CollectionName: name})
	if err != nil {
		return false, err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.table),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#name)"),
		ExpressionAttributeNames: map[string]string{"#name": "collection_name"},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *DynamoStore) Current(ctx context.Context, name string) (int64, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(name),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, false, err
	}
	if len(out.Item) == 0 {
		return 0, false, nil
	}
	var doc dynamoCounter
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return 0, false, fmt.Errorf("decode counter %s: %w", name, err)
	}
	return doc.SequenceValue, true, nil
}

func sequenceValue(attrs map[string]types.AttributeValue) (int64, error) {
	n, ok := attrs["sequence_value"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("update returned no sequence_value")
	}
	return strconv.ParseInt(n.Value, 10, 64)
}
