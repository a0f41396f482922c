package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
)

// maxTransactItems is the DynamoDB limit for a single TransactWriteItems call.
const maxTransactItems = 100

// DynamoAPI is the subset of *dynamodb.Client used by the DynamoDB stores.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

type dealerItem struct {
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	NameKey   string `dynamodbav:"name_key"`
	TierLimit int    `dynamodbav:"tier_limit"`
}

type listingItem struct {
	ID          string     `dynamodbav:"id"`
	DealerID    string     `dynamodbav:"dealer_id"`
	DealerName  string     `dynamodbav:"dealer_name"`
	Vehicle     string     `dynamodbav:"vehicle"`
	Price       float64    `dynamodbav:"price"`
	State       string     `dynamodbav:"state"`
	CreatedAt   time.Time  `dynamodbav:"created_at"`
	UpdatedAt   *time.Time `dynamodbav:"updated_at,omitempty"`
	PublishedAt *time.Time `dynamodbav:"published_at,omitempty"`
}

func idKey(id uuid.UUID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id.String()},
	}
}

// DynamoDealerStore keeps dealers in a DynamoDB table keyed by "id".
type DynamoDealerStore struct {
	client DynamoAPI
	table  string
}

// NewDynamoDealerStore binds the store to a table.
func NewDynamoDealerStore(client DynamoAPI, table string) *DynamoDealerStore {
	return &DynamoDealerStore{client: client, table: table}
}

func (s *DynamoDealerStore) Save(ctx context.Context, d *model.Dealer) error {
	item, err := attributevalue.MarshalMap(dealerItem{
		ID:        d.ID.String(),
		Name:      d.Name,
		NameKey:   strings.ToLower(d.Name),
		TierLimit: d.TierLimit,
	})
	if err != nil {
		return fmt.Errorf("marshal dealer: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put dealer: %w", err)
	}
	return nil
}

func (s *DynamoDealerStore) FindAll(ctx context.Context) ([]*model.Dealer, error) {
	var out []*model.Dealer
	p := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true), // name checks and quota counts must see committed writes
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan dealers: %w", err)
		}
		var items []dealerItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal dealers: %w", err)
		}
		for _, it := range items {
			d, err := it.toModel()
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *DynamoDealerStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Dealer, error) {
	res, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get dealer: %w", err)
	}
	if len(res.Item) == 0 {
		return nil, ErrNotFound
	}
	var it dealerItem
	if err := attributevalue.UnmarshalMap(res.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal dealer: %w", err)
	}
	return it.toModel()
}

func (it dealerItem) toModel() (*model.Dealer, error) {
	id, err := uuid.Parse(it.ID)
	if err != nil {
		return nil, fmt.Errorf("dealer id %q: %w", it.ID, err)
	}
	return &model.Dealer{ID: id, Name: it.Name, TierLimit: it.TierLimit}, nil
}

// DynamoListingStore keeps listings in a DynamoDB table keyed by "id".
// Multi-listing saves go through TransactWriteItems.
type DynamoListingStore struct {
	client DynamoAPI
	table  string
}

// NewDynamoListingStore binds the store to a table.
func NewDynamoListingStore(client DynamoAPI, table string) *DynamoListingStore {
	return &DynamoListingStore{client: client, table: table}
}

func (s *DynamoListingStore) Save(ctx context.Context, listings ...*model.Listing) error {
	switch {
	case len(listings) == 0:
		return nil
	case len(listings) > maxTransactItems:
		return fmt.Errorf("save listings: %d items exceeds transaction limit %d", len(listings), maxTransactItems)
	}
	items := make([]map[string]types.AttributeValue, 0, len(listings))
	for _, l := range listings {
		item, err := attributevalue.MarshalMap(newListingItem(l))
		if err != nil {
			return fmt.Errorf("marshal listing: %w", err)
		}
		items = append(items, item)
	}
	if len(items) == 1 {
		if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.table),
			Item:      items[0],
		}); err != nil {
			return fmt.Errorf("put listing: %w", err)
		}
		return nil
	}
	tx := make([]types.TransactWriteItem, 0, len(items))
	for _, item := range items {
		tx = append(tx, types.TransactWriteItem{
			Put: &types.Put{TableName: aws.String(s.table), Item: item},
		})
	}
	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: tx}); err != nil {
		return fmt.Errorf("transact listings: %w", err)
	}
	return nil
}

// FindAll scans the table and orders the result by creation time, since
// DynamoDB scans have no stable order of their own.
func (s *DynamoListingStore) FindAll(ctx context.Context) ([]*model.Listing, error) {
	var out []*model.Listing
	p := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true), // name checks and quota counts must see committed writes
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan listings: %w", err)
		}
		var items []listingItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal listings: %w", err)
		}
		for _, it := range items {
			l, err := it.toModel()
			if err != nil {
				return nil, err
			}
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *DynamoListingStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	res, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if len(res.Item) == 0 {
		return nil, ErrNotFound
	}
	var it listingItem
	if err := attributevalue.UnmarshalMap(res.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal listing: %w", err)
	}
	return it.toModel()
}

func newListingItem(l *model.Listing) listingItem {
	return listingItem{
		ID:          l.ID.String(),
		DealerID:    l.Dealer.ID.String(),
		DealerName:  l.Dealer.Name,
		Vehicle:     l.Vehicle,
		Price:       l.Price,
		State:       string(l.State),
		CreatedAt:   l.CreatedAt.UTC(),
		UpdatedAt:   utcPtr(l.UpdatedAt),
		PublishedAt: utcPtr(l.PublishedAt),
	}
}

func (it listingItem) toModel() (*model.Listing, error) {
	id, err := uuid.Parse(it.ID)
	if err != nil {
		return nil, fmt.Errorf("listing id %q: %w", it.ID, err)
	}
	dealerID, err := uuid.Parse(it.DealerID)
	if err != nil {
		return nil, fmt.Errorf("listing %s dealer id %q: %w", it.ID, it.DealerID, err)
	}
	return &model.Listing{
		ID:          id,
		Dealer:      model.DealerRef{ID: dealerID, Name: it.DealerName},
		Vehicle:     it.Vehicle,
		Price:       it.Price,
		State:       model.ListingState(it.State),
		CreatedAt:   it.CreatedAt.UTC(),
		UpdatedAt:   utcPtr(it.UpdatedAt),
		PublishedAt: utcPtr(it.PublishedAt),
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
