package services

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	libsmtp "subtrack/internal/lib/smtp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clientMock struct {
	mailFrom string
	rcptTo   string
	body     strings.Builder
	quit     bool
	closed   bool

	mailErr error
	rcptErr error
	dataErr error
}

func (c *clientMock) Mail(from string) error {
	c.mailFrom = from
	return c.mailErr
}

func (c *clientMock) Rcpt(to string) error {
	c.rcptTo = to
	return c.rcptErr
}

func (c *clientMock) Data() (io.WriteCloser, error) {
	if c.dataErr != nil {
		return nil, c.dataErr
	}
	return nopWriteCloser{&c.body}, nil
}

func (c *clientMock) Quit() error {
	c.quit = true
	return nil
}

func (c *clientMock) Close() error {
	c.closed = true
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type transportMock struct {
	client *clientMock
	err    error
}

func (t *transportMock) Connect() (libsmtp.Client, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.client, nil
}

func fixedNow(t *testing.T, value time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return value }
	t.Cleanup(func() { timeNow = prev })
}

func TestSendRenewalReminder(t *testing.T) {
	fixedNow(t, time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC))

	client := &clientMock{}
	transport := &transportMock{client: client}
	svc := NewSenderService(transport, "noreply@subtrack.local", "owner@example.com", newNoopLogger())

	body := []byte(`{"message_id":"a1b2","name":"Netflix","category":"Streaming",` +
		`"cost":15.99,"renewal_date":"2024-01-10","days_until":5}`)

	err := svc.SendRenewalReminder(body)
	require.NoError(t, err)

	assert.Equal(t, "noreply@subtrack.local", client.mailFrom)
	assert.Equal(t, "owner@example.com", client.rcptTo)
	assert.True(t, client.quit)
	assert.True(t, client.closed)

	email := client.body.String()
	assert.Contains(t, email, "Subject: Netflix renews in 5 days")
	assert.Contains(t, email, `Your streaming subscription "Netflix" ($15.99)`)
	assert.Contains(t, email, "January 10, 2024")
}

func TestSendRenewalReminder_DueToday(t *testing.T) {
	fixedNow(t, time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))

	client := &clientMock{}
	svc := NewSenderService(&transportMock{client: client},
		"noreply@subtrack.local", "owner@example.com", newNoopLogger())

	body := []byte(`{"message_id":"c3d4","name":"Spotify","category":"Music",` +
		`"cost":9.99,"renewal_date":"2024-01-10","days_until":0}`)

	require.NoError(t, svc.SendRenewalReminder(body))
	assert.Contains(t, client.body.String(), "Subject: Spotify renews today")
}

func TestSendRenewalReminder_BadPayload(t *testing.T) {
	svc := NewSenderService(&transportMock{client: &clientMock{}},
		"noreply@subtrack.local", "owner@example.com", newNoopLogger())

	err := svc.SendRenewalReminder([]byte("not json"))
	require.Error(t, err)
}

func TestSendRenewalReminder_ConnectError(t *testing.T) {
	svc := NewSenderService(&transportMock{err: errors.New("dial tcp: refused")},
		"noreply@subtrack.local", "owner@example.com", newNoopLogger())

	err := svc.SendRenewalReminder([]byte(`{"message_id":"x","name":"Netflix",` +
		`"renewal_date":"2024-01-10","days_until":1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}

func TestSendRenewalReminder_MailError(t *testing.T) {
	client := &clientMock{mailErr: errors.New("550 rejected")}
	svc := NewSenderService(&transportMock{client: client},
		"noreply@subtrack.local", "owner@example.com", newNoopLogger())

	err := svc.SendRenewalReminder([]byte(`{"message_id":"x","name":"Netflix",` +
		`"renewal_date":"2024-01-10","days_until":1}`))
	require.Error(t, err)
	assert.True(t, client.closed)
}
