package lambdatranslator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/require"
)

type fakeLambda struct {
	out    *lambda.InvokeOutput
	err    error
	lastIn *lambda.InvokeInput
	calls  int
}

func (f *fakeLambda) Invoke(_ context.Context, in *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.calls++
	f.lastIn = in
	return f.out, f.err
}

func okOutput(t *testing.T, resp Response) *lambda.InvokeOutput {
	t.Helper()
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	return &lambda.InvokeOutput{StatusCode: 200, Payload: b}
}

func mustNew(t *testing.T, api *fakeLambda) *Client {
	t.Helper()
	c, err := New(api, "translator-dev")
	require.NoError(t, err)
	return c
}

func TestNew_Validates(t *testing.T) {
	_, err := New(nil, "translator-dev")
	require.Error(t, err)
	_, err = New(&fakeLambda{}, " ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be empty")
}

func TestTranslate_HappyPath(t *testing.T) {
	api := &fakeLambda{out: okOutput(t, Response{Translations: []string{"hello"}})}

	out, err := mustNew(t, api).Translate(context.Background(), "hola", "es", "en")
	require.NoError(t, err)
	require.Equal(t, "hello", out)
	require.Equal(t, "translator-dev", aws.ToString(api.lastIn.FunctionName))

	var req Request
	require.NoError(t, json.Unmarshal(api.lastIn.Payload, &req))
	require.Equal(t, Request{Texts: []string{"hola"}, SourceLang: "es", TargetLang: "en"}, req)
}

func TestTranslate_SkipsNoop(t *testing.T) {
	api := &fakeLambda{}
	c := mustNew(t, api)

	out, err := c.Translate(context.Background(), "hello", "en", "en")
	require.NoError(t, err)
	require.Equal(t, "hello", out)

	batch, err := c.TranslateBatch(context.Background(), nil, "en", "es")
	require.NoError(t, err)
	require.Empty(t, batch)
	require.Zero(t, api.calls)
}

func TestTranslateBatch_Errors(t *testing.T) {
	cases := []struct {
		name    string
		api     *fakeLambda
		errPart string
	}{
		{name: "invoke error", api: &fakeLambda{err: errors.New("boom")}, errPart: "invoke translator-dev"},
		{name: "bad status", api: &fakeLambda{out: &lambda.InvokeOutput{StatusCode: 429}}, errPart: "status 429"},
		{name: "function error", api: &fakeLambda{out: &lambda.InvokeOutput{StatusCode: 200, FunctionError: aws.String("Unhandled")}}, errPart: "function error: Unhandled"},
		{name: "bad payload", api: &fakeLambda{out: &lambda.InvokeOutput{StatusCode: 200, Payload: []byte("nope")}}, errPart: "decode response"},
		{name: "translator error", api: &fakeLambda{out: &lambda.InvokeOutput{StatusCode: 200, Payload: []byte(`{"error":"no translator for es→en"}`)}}, errPart: "translator error"},
		{name: "count mismatch", api: &fakeLambda{out: &lambda.InvokeOutput{StatusCode: 200, Payload: []byte(`{"translations":[]}`)}}, errPart: "expected 2 translations, got 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mustNew(t, tc.api).TranslateBatch(context.Background(), []string{"a", "b"}, "en", "es")
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestInvokeError_ExposesStatus(t *testing.T) {
	api := &fakeLambda{out: &lambda.InvokeOutput{StatusCode: 429}}
	_, err := mustNew(t, api).Translate(context.Background(), "hola", "es", "en")
	var invokeErr *InvokeError
	require.ErrorAs(t, err, &invokeErr)
	require.Equal(t, 429, invokeErr.HTTPStatusCode())
}
