// Package dynamodb provides a DynamoDB-backed implementation of storage.Store.
//
// Each resource lives in its own table keyed by the string attribute "id".
// Items carry an extra numeric "seq" attribute holding the creation instant;
// List scans the table and orders by it.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/aanand-mishra/zoo-api/internal/id"
	"github.com/aanand-mishra/zoo-api/internal/storage"
	"github.com/aanand-mishra/zoo-api/internal/types"
)

const (
	keyAttr = "id"
	seqAttr = "seq"

	tableWaitTimeout = 2 * time.Minute
)

// Client is the subset of *dynamodb.Client used by Store.
type Client interface {
	dynamodb.ScanAPIClient
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// TableClient is the subset of *dynamodb.Client used by EnsureTable.
type TableClient interface {
	dynamodb.DescribeTableAPIClient
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// NewClient builds a DynamoDB client from the default AWS credential chain.
// A non-empty endpoint overrides the service URL (DynamoDB Local, LocalStack).
func NewClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("dynamodb.NewClient: load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// EnsureTable creates table with an "id" hash key if it does not exist and
// waits until it is active.
func EnsureTable(ctx context.Context, client TableClient, table string) error {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
	if err == nil {
		return nil
	}
	var notFound *ddbtypes.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("dynamodb.EnsureTable: describe %s: %w", table, err)
	}

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []ddbtypes.AttributeDefinition{
			{AttributeName: aws.String(keyAttr), AttributeType: ddbtypes.ScalarAttributeTypeS},
		},
		KeySchema: []ddbtypes.KeySchemaElement{
			{AttributeName: aws.String(keyAttr), KeyType: ddbtypes.KeyTypeHash},
		},
		BillingMode: ddbtypes.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *ddbtypes.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("dynamodb.EnsureTable: create %s: %w", table, err)
		}
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)}, tableWaitTimeout); err != nil {
		return fmt.Errorf("dynamodb.EnsureTable: wait for %s: %w", table, err)
	}
	return nil
}

// Store is the DynamoDB implementation of storage.Store for one resource.
type Store[T types.Entity[T]] struct {
	client Client
	table  string
	ids    id.Generator
	last   atomic.Int64
}

// New returns a Store over an existing table.
func New[T types.Entity[T]](client Client, table string, ids id.Generator) *Store[T] {
	return &Store[T]{client: client, table: table, ids: ids}
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	type ordered struct {
		seq int64
		rec T
	}
	var all []ordered

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb.List: scan: %w", err)
		}
		for _, item := range page.Items {
			rec, seq, err := decode[T](item)
			if err != nil {
				return nil, fmt.Errorf("dynamodb.List: %w", err)
			}
			all = append(all, ordered{seq: seq, rec: rec})
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].seq < all[j].seq })

	records := make([]T, 0, len(all))
	for _, o := range all {
		records = append(records, o.rec)
	}
	return records, nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return zero, fmt.Errorf("dynamodb.Get: %w", err)
	}
	if out.Item == nil {
		return zero, fmt.Errorf("dynamodb.Get %q: %w", id, storage.ErrNotFound)
	}

	rec, _, err := decode[T](out.Item)
	if err != nil {
		return zero, fmt.Errorf("dynamodb.Get: %w", err)
	}
	return rec, nil
}

func (s *Store[T]) Create(ctx context.Context, candidateID string, rec T) (T, error) {
	var zero T

	recID := candidateID
	if recID == "" {
		recID = s.ids.NewID()
	}
	rec = rec.WithID(recID)

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return zero, fmt.Errorf("dynamodb.Create: marshal: %w", err)
	}
	item[seqAttr] = &ddbtypes.AttributeValueMemberN{Value: strconv.FormatInt(s.nextSeq(), 10)}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return zero, fmt.Errorf("dynamodb.Create %q: %w", recID, storage.ErrAlreadyExists)
		}
		return zero, fmt.Errorf("dynamodb.Create: put: %w", err)
	}
	return rec, nil
}

func (s *Store[T]) Update(ctx context.Context, id string, rec T) (T, error) {
	var zero T

	item, err := attributevalue.MarshalMap(rec.WithID(id))
	if err != nil {
		return zero, fmt.Errorf("dynamodb.Update: marshal: %w", err)
	}
	delete(item, keyAttr)

	expr, names, values := setExpression(item)

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       key(id),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              ddbtypes.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return zero, fmt.Errorf("dynamodb.Update %q: %w", id, storage.ErrNotFound)
		}
		return zero, fmt.Errorf("dynamodb.Update: %w", err)
	}

	updated, _, err := decode[T](out.Attributes)
	if err != nil {
		return zero, fmt.Errorf("dynamodb.Update: %w", err)
	}
	return updated, nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table),
		Key:                 key(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("dynamodb.Delete %q: %w", id, storage.ErrNotFound)
		}
		return fmt.Errorf("dynamodb.Delete: %w", err)
	}
	return nil
}

func (s *Store[T]) nextSeq() int64 {
	for {
		now := time.Now().UnixNano()
		last := s.last.Load()
		if now <= last {
			now = last + 1
		}
		if s.last.CompareAndSwap(last, now) {
			return now
		}
	}
}

func key(id string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		keyAttr: &ddbtypes.AttributeValueMemberS{Value: id},
	}
}

// setExpression builds "SET #a0 = :v0, #a1 = :v1 ..." over the attributes of
// item in a stable order. Placeholders keep reserved words like "name" legal.
func setExpression(item map[string]ddbtypes.AttributeValue) (string, map[string]string, map[string]ddbtypes.AttributeValue) {
	attrs := make([]string, 0, len(item))
	for k := range item {
		attrs = append(attrs, k)
	}
	sort.Strings(attrs)

	names := make(map[string]string, len(attrs))
	values := make(map[string]ddbtypes.AttributeValue, len(attrs))
	expr := "SET "
	for i, attr := range attrs {
		n := fmt.Sprintf("#a%d", i)
		v := fmt.Sprintf(":v%d", i)
		names[n] = attr
		values[v] = item[attr]
		if i > 0 {
			expr += ", "
		}
		expr += n + " = " + v
	}
	return expr, names, values
}

func decode[T any](item map[string]ddbtypes.AttributeValue) (T, int64, error) {
	var rec T
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return rec, 0, fmt.Errorf("unmarshal item: %w", err)
	}

	var seq int64
	if n, ok := item[seqAttr].(*ddbtypes.AttributeValueMemberN); ok {
		parsed, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return rec, 0, fmt.Errorf("parse %s: %w", seqAttr, err)
		}
		seq = parsed
	}
	return rec, seq, nil
}

func isConditionFailed(err error) bool {
	var condErr *ddbtypes.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}

var (
	_ storage.Store[types.Animal] = (*Store[types.Animal])(nil)
	_ Client                      = (*dynamodb.Client)(nil)
	_ TableClient                 = (*dynamodb.Client)(nil)
)
