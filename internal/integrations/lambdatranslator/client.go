// Package lambdatranslator translates text by invoking a translator Lambda.
package lambdatranslator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// lambdaAPI is the subset of the Lambda client used here.
// *lambda.Client satisfies it.
type lambdaAPI interface {
	Invoke(ctx context.Context, in *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Request is the payload sent to the translator function.
type Request struct {
	Texts      []string `json:"texts"`
	SourceLang string   `json:"sourceLang"`
	TargetLang string   `json:"targetLang"`
}

// Response is the payload returned by the translator function.
type Response struct {
	Translations []string `json:"translations,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// InvokeError reports a non-2xx status from the Invoke API.
type InvokeError struct {
	FunctionName string
	StatusCode   int
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("lambdatranslator: invoke %s returned status %d", e.FunctionName, e.StatusCode)
}

func (e *InvokeError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client invokes a translator Lambda synchronously.
type Client struct {
	api          lambdaAPI
	functionName string
}

func New(api lambdaAPI, functionName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("lambdatranslator: api must not be nil")
	}
	functionName = strings.TrimSpace(functionName)
	if functionName == "" {
		return nil, errors.New("lambdatranslator: function name must not be empty")
	}
	return &Client{api: api, functionName: functionName}, nil
}

// Translate translates a single text.
func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	if strings.TrimSpace(text) == "" || from == to {
		return text, nil
	}
	out, err := c.TranslateBatch(ctx, []string{text}, from, to)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// TranslateBatch translates texts in one invocation, preserving order.
func (c *Client) TranslateBatch(ctx context.Context, texts []string, from, to string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}
	payload, err := json.Marshal(Request{Texts: texts, SourceLang: from, TargetLang: to})
	if err != nil {
		return nil, fmt.Errorf("lambdatranslator: marshal request: %w", err)
	}

	result, err := c.api.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(c.functionName),
		Payload:      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("lambdatranslator: invoke %s: %w", c.functionName, err)
	}
	if result.StatusCode < 200 || result.StatusCode >= 300 {
		return nil, &InvokeError{FunctionName: c.functionName, StatusCode: int(result.StatusCode)}
	}
	if result.FunctionError != nil {
		return nil, fmt.Errorf("lambdatranslator: function error: %s", aws.ToString(result.FunctionError))
	}

	var resp Response
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("lambdatranslator: decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("lambdatranslator: translator error: %s", resp.Error)
	}
	if len(resp.Translations) != len(texts) {
		return nil, fmt.Errorf("lambdatranslator: expected %d translations, got %d", len(texts), len(resp.Translations))
	}
	return resp.Translations, nil
}
