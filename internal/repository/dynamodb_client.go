package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"multilingual-bot/internal/domain"
)

const (
	skPrefixMsg  = "MSG#"
	skPrefixProp = "PROP#"
	skMeta       = "META#"
	ttlDuration  = 30 * 24 * time.Hour // 30-day TTL on transcripts
	statusDone   = "complete"
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Client wraps a single DynamoDB table holding user state and transcripts.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

// userPK returns the partition key for a user on a channel.
func userPK(channelID, userID string) string {
	return "USER#" + channelID + "#" + userID
}

func propSK(name string) string {
	return skPrefixProp + name
}

// convPK returns the DynamoDB partition key for a conversation.
func convPK(conversationID string) string {
	return "CONV#" + conversationID
}

// msgSK returns the sort key for a transcript entry at ts.
func msgSK(ts time.Time) string {
	return skPrefixMsg + ts.UTC().Format(time.RFC3339Nano)
}

func (c *Client) ttlValue() int64 {
	return c.now().Add(ttlDuration).Unix()
}

// GetUserProperty returns a stored user property. found is false when the
// user has never had the property written.
func (c *Client) GetUserProperty(ctx context.Context, channelID, userID, name string) (value string, found bool, err error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(channelID, userID)},
			"SK": &types.AttributeValueMemberS{Value: propSK(name)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", false, fmt.Errorf("repository: GetUserProperty get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return "", false, nil
	}
	v, err := strAttr(out.Item, "value")
	if err != nil {
		return "", false, fmt.Errorf("repository: GetUserProperty decode value: %w", err)
	}
	return v, true, nil
}

// PutUserProperty writes or replaces a user property.
func (c *Client) PutUserProperty(ctx context.Context, channelID, userID, name, value string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("repository: PutUserProperty: user id is required")
	}
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"PK":        &types.AttributeValueMemberS{Value: userPK(channelID, userID)},
			"SK":        &types.AttributeValueMemberS{Value: propSK(name)},
			"channelId": &types.AttributeValueMemberS{Value: channelID},
			"userId":    &types.AttributeValueMemberS{Value: userID},
			"value":     &types.AttributeValueMemberS{Value: value},
			"updatedAt": &types.AttributeValueMemberS{Value: c.now().UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("repository: PutUserProperty: %w", err)
	}
	return nil
}

// GetConversationTurnCount returns the persisted turn count for a conversation.
func (c *Client) GetConversationTurnCount(ctx context.Context, conversationID string) (int, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: convPK(conversationID)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, fmt.Errorf("repository: GetConversationTurnCount get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return 0, nil
	}

	turns, err := intAttr(out.Item, "turns")
	if err != nil {
		return 0, fmt.Errorf("repository: GetConversationTurnCount decode turns: %w", err)
	}
	return turns, nil
}

// SaveTurn writes the transcript entry and updated metadata in one transaction.
func (c *Client) SaveTurn(ctx context.Context, entry domain.TranscriptEntry, meta domain.ConversationMeta) error {
	if entry.PK == "" || entry.SK == "" {
		return errors.New("repository: SaveTurn: entry PK and SK are required")
	}
	if meta.PK == "" || meta.SK == "" {
		return errors.New("repository: SaveTurn: meta PK and SK are required")
	}

	_, err := c.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(c.tableName),
					Item:                entryItem(entry),
					ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(c.tableName),
					Item:      metaItem(meta),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("repository: SaveTurn: %w", err)
	}
	return nil
}

// SaveTranscriptTurn persists a completed message turn and bumps the turn count.
func (c *Client) SaveTranscriptTurn(ctx context.Context, conversationID, userID, text, reply string, turns int) error {
	entry := c.NewTranscriptEntry(conversationID, userID, text, reply)
	meta := c.NewConversationMeta(conversationID, turns)
	if err := c.SaveTurn(ctx, entry, meta); err != nil {
		return fmt.Errorf("repository: SaveTranscriptTurn: %w", err)
	}
	return nil
}

// NewTranscriptEntry constructs a TranscriptEntry keyed by conversation and current time.
func (c *Client) NewTranscriptEntry(conversationID, userID, text, reply string) domain.TranscriptEntry {
	return domain.TranscriptEntry{
		PK:             convPK(conversationID),
		SK:             msgSK(c.now()),
		ConversationID: conversationID,
		UserID:         userID,
		Text:           text,
		Reply:          reply,
		Status:         statusDone,
		TTL:            c.ttlValue(),
	}
}

// NewConversationMeta constructs a ConversationMeta record.
func (c *Client) NewConversationMeta(conversationID string, turns int) domain.ConversationMeta {
	return domain.ConversationMeta{
		PK:             convPK(conversationID),
		SK:             skMeta,
		ConversationID: conversationID,
		LastActivity:   c.now().UTC().Format(time.RFC3339),
		Turns:          turns,
		TTL:            c.ttlValue(),
	}
}

func entryItem(e domain.TranscriptEntry) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":             &types.AttributeValueMemberS{Value: e.PK},
		"SK":             &types.AttributeValueMemberS{Value: e.SK},
		"conversationId": &types.AttributeValueMemberS{Value: e.ConversationID},
		"userId":         &types.AttributeValueMemberS{Value: e.UserID},
		"text":           &types.AttributeValueMemberS{Value: e.Text},
		"reply":          &types.AttributeValueMemberS{Value: e.Reply},
		"status":         &types.AttributeValueMemberS{Value: e.Status},
		"ttl":            &types.AttributeValueMemberN{Value: strconv.FormatInt(e.TTL, 10)},
	}
}

func metaItem(meta domain.ConversationMeta) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":             &types.AttributeValueMemberS{Value: meta.PK},
		"SK":             &types.AttributeValueMemberS{Value: meta.SK},
		"conversationId": &types.AttributeValueMemberS{Value: meta.ConversationID},
		"lastActivity":   &types.AttributeValueMemberS{Value: meta.LastActivity},
		"turns":          &types.AttributeValueMemberN{Value: strconv.Itoa(meta.Turns)},
		"ttl":            &types.AttributeValueMemberN{Value: strconv.FormatInt(meta.TTL, 10)},
	}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func intAttr(item map[string]types.AttributeValue, key string) (int, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
