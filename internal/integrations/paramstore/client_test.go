package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a simple fake implementing ssmAPI for tests.
type fakeAPI struct {
	getOut *ssm.GetParameterOutput
	getErr error
	calls  int
	lastIn *ssm.GetParameterInput
}

func (f *fakeAPI) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.calls++
	f.lastIn = in
	return f.getOut, f.getErr
}

func output(value *string) *ssm.GetParameterOutput {
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: aws.String("p"), Value: value}}
}

func mustNew(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	c, err := New(api)
	require.NoError(t, err)
	return c
}

func TestGetParameter_HappyPath(t *testing.T) {
	api := &fakeAPI{getOut: output(aws.String(`{"token":"sk"}`))}
	v, err := mustNew(t, api).GetParameter(context.Background(), " /multilingual-bot/open-ai-token ")
	require.NoError(t, err)
	require.Equal(t, `{"token":"sk"}`, v)
	require.Equal(t, "/multilingual-bot/open-ai-token", aws.ToString(api.lastIn.Name))
	require.True(t, aws.ToBool(api.lastIn.WithDecryption))
}

func TestGetParameter_CachesPerName(t *testing.T) {
	api := &fakeAPI{getOut: output(aws.String("translator-dev"))}
	c := mustNew(t, api)

	for i := 0; i < 3; i++ {
		v, err := c.GetParameter(context.Background(), "/multilingual-bot/config/translator_function")
		require.NoError(t, err)
		require.Equal(t, "translator-dev", v)
	}
	require.Equal(t, 1, api.calls)

	_, err := c.GetParameter(context.Background(), "/multilingual-bot/other")
	require.NoError(t, err)
	require.Equal(t, 2, api.calls)
}

func TestGetParameter_ErrorsAreNotCached(t *testing.T) {
	api := &fakeAPI{getErr: errors.New("boom")}
	c := mustNew(t, api)

	_, err := c.GetParameter(context.Background(), "p")
	require.ErrorContains(t, err, "boom")

	api.getErr = nil
	api.getOut = output(aws.String("v"))
	v, err := c.GetParameter(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "v", v)
	require.Equal(t, 2, api.calls)
}

func TestGetParameter_MissingValue(t *testing.T) {
	_, err := mustNew(t, &fakeAPI{getOut: output(nil)}).GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing value")
}

func TestGetParameter_ClientNotInitialized(t *testing.T) {
	_, err := (&Client{}).GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not initialized")
}

func TestGetParameter_EmptyName(t *testing.T) {
	_, err := mustNew(t, &fakeAPI{}).GetParameter(context.Background(), "  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "required")
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be nil")
}
