package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"multilingual-bot/internal/domain"
)

type fakeStore struct {
	vals    map[string]string
	getErr  error
	putErr  error
	gets    int
	lastKey string
}

func key(channelID, userID, name string) string {
	return channelID + "|" + userID + "|" + name
}

func (f *fakeStore) GetUserProperty(_ context.Context, channelID, userID, name string) (string, bool, error) {
	f.gets++
	f.lastKey = key(channelID, userID, name)
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.vals[f.lastKey]
	return v, ok, nil
}

func (f *fakeStore) PutUserProperty(_ context.Context, channelID, userID, name, value string) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.vals == nil {
		f.vals = map[string]string{}
	}
	f.vals[key(channelID, userID, name)] = value
	return nil
}

type plainTurn struct {
	activity domain.Activity
}

func (p *plainTurn) Activity() domain.Activity { return p.activity }

func (p *plainTurn) SendActivity(context.Context, domain.Activity) error { return nil }

type statefulTurn struct {
	plainTurn
	bag map[string]any
}

func (s *statefulTurn) TurnState() map[string]any { return s.bag }

func userTurn(userID string) *plainTurn {
	return &plainTurn{activity: domain.Activity{
		Type:      domain.ActivityTypeMessage,
		ChannelID: "webchat",
		From:      domain.ChannelAccount{ID: userID},
	}}
}

func mustNewAccessor(t *testing.T, s Store) *PropertyAccessor {
	t.Helper()
	p, err := NewPropertyAccessor(s, LanguagePreference)
	require.NoError(t, err)
	return p
}

func TestNewPropertyAccessor_Validates(t *testing.T) {
	_, err := NewPropertyAccessor(nil, LanguagePreference)
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be nil")

	_, err = NewPropertyAccessor(&fakeStore{}, "  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be empty")
}

func TestGet_DefaultWhenMissingIsNotPersisted(t *testing.T) {
	s := &fakeStore{}
	p := mustNewAccessor(t, s)

	v, err := p.Get(context.Background(), userTurn("u1"), "en")
	require.NoError(t, err)
	require.Equal(t, "en", v)
	require.Equal(t, "webchat|u1|language_preference", s.lastKey)
	require.Empty(t, s.vals)
}

func TestGet_StoredValue(t *testing.T) {
	s := &fakeStore{vals: map[string]string{key("webchat", "u1", LanguagePreference): "es"}}
	v, err := mustNewAccessor(t, s).Get(context.Background(), userTurn("u1"), "en")
	require.NoError(t, err)
	require.Equal(t, "es", v)
}

func TestSetThenGet_PerUser(t *testing.T) {
	s := &fakeStore{}
	p := mustNewAccessor(t, s)
	ctx := context.Background()

	require.NoError(t, p.Set(ctx, userTurn("u1"), "es"))

	v, err := p.Get(ctx, userTurn("u1"), "en")
	require.NoError(t, err)
	require.Equal(t, "es", v)

	v, err = p.Get(ctx, userTurn("u2"), "en")
	require.NoError(t, err)
	require.Equal(t, "en", v)
}

func TestGet_UsesTurnStateCache(t *testing.T) {
	s := &fakeStore{}
	p := mustNewAccessor(t, s)
	ctx := context.Background()
	turn := &statefulTurn{plainTurn: *userTurn("u1"), bag: map[string]any{}}

	_, err := p.Get(ctx, turn, "en")
	require.NoError(t, err)
	require.NoError(t, p.Set(ctx, turn, "es"))

	v, err := p.Get(ctx, turn, "en")
	require.NoError(t, err)
	require.Equal(t, "es", v)
	require.Equal(t, 1, s.gets)
}

func TestAccessor_MissingUserID(t *testing.T) {
	p := mustNewAccessor(t, &fakeStore{})
	_, err := p.Get(context.Background(), userTurn(""), "en")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no user id")

	err = p.Set(context.Background(), userTurn(" "), "es")
	require.Error(t, err)
}

func TestAccessor_StoreErrorsWrapped(t *testing.T) {
	boom := errors.New("boom")
	p := mustNewAccessor(t, &fakeStore{getErr: boom, putErr: boom})

	_, err := p.Get(context.Background(), userTurn("u1"), "en")
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "get language_preference")

	err = p.Set(context.Background(), userTurn("u1"), "es")
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "set language_preference")
}
