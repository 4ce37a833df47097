package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Тесты LinkCodec: round-trip, подделка одного символа, разделение
// пространств имён, несовместимость с сессионными токенами, истечение.

func newLink(t *testing.T, p LinkPurpose, opts ...Option) *LinkCodec {
	t.Helper()
	lc, err := NewLinkCodec(testSecret, p, time.Hour, opts...)
	require.NoError(t, err)
	return lc
}

func TestLinkCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	lc := newLink(t, PurposeEmailVerification)
	payload := map[string]string{"email": "a@x.com"}

	tok, err := lc.Encode(payload)
	require.NoError(t, err)

	got, err := lc.Decode(tok)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestLinkCodec_EmptyPayload(t *testing.T) {
	t.Parallel()

	lc := newLink(t, PurposePasswordReset)
	tok, err := lc.Encode(nil)
	require.NoError(t, err)

	got, err := lc.Decode(tok)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLinkCodec_TamperOneChar(t *testing.T) {
	t.Parallel()

	lc := newLink(t, PurposeEmailVerification)
	tok, err := lc.Encode(map[string]string{"email": "a@x.com"})
	require.NoError(t, err)

	_, err = lc.Decode(flipSignatureChar(t, tok))
	require.ErrorIs(t, err, ErrLinkTokenInvalid)

	// Порча payload-сегмента.
	b := []byte(tok)
	i := len(b) / 3
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	_, err = lc.Decode(string(b))
	require.ErrorIs(t, err, ErrLinkTokenInvalid)

	_, err = lc.Decode("garbage")
	require.ErrorIs(t, err, ErrLinkTokenInvalid)
}

func TestLinkCodec_PurposesAreIsolated(t *testing.T) {
	t.Parallel()

	verify := newLink(t, PurposeEmailVerification)
	reset := newLink(t, PurposePasswordReset)

	tok, err := verify.Encode(map[string]string{"email": "a@x.com"})
	require.NoError(t, err)

	_, err = reset.Decode(tok)
	require.ErrorIs(t, err, ErrLinkTokenInvalid)
}

func TestLinkCodec_NotReplayableAsSessionToken(t *testing.T) {
	t.Parallel()

	lc := newLink(t, PurposeEmailVerification)
	codec := newCodec(t)

	link, err := lc.Encode(map[string]string{"email": "a@x.com"})
	require.NoError(t, err)
	_, err = codec.Parse(link)
	require.ErrorIs(t, err, ErrTokenInvalid)

	session, err := codec.Issue(alice, false)
	require.NoError(t, err)
	_, err = lc.Decode(session)
	require.ErrorIs(t, err, ErrLinkTokenInvalid)
}

func TestLinkCodec_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	old := newLink(t, PurposePasswordReset, WithClock(fixedClock(now.Add(-2*time.Hour))))
	tok, err := old.Encode(map[string]string{"email": "a@x.com"})
	require.NoError(t, err)

	_, err = newLink(t, PurposePasswordReset, WithClock(fixedClock(now))).Decode(tok)
	require.ErrorIs(t, err, ErrLinkTokenInvalid)
}

func TestNewLinkCodec_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewLinkCodec("", PurposePasswordReset, time.Hour)
	require.Error(t, err)

	_, err = NewLinkCodec("s", "", time.Hour)
	require.Error(t, err)

	lc, err := NewLinkCodec("s", PurposePasswordReset, 0)
	require.NoError(t, err)
	require.Equal(t, DefaultLinkTTL, lc.ttl)
	require.Equal(t, PurposePasswordReset, lc.Purpose())
}
