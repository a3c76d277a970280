package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventSubject(t *testing.T) {
	require.Equal(t, "survey.responses.submitted", eventSubject("survey", EventResponseSubmitted))
	require.Equal(t, "responses.submitted", eventSubject("", EventResponseSubmitted))
}

func TestNATSEventPublisherWithoutConnection(t *testing.T) {
	publisher := NewNATSEventPublisher(nil, "gema:survey", testLogger())
	require.NoError(t, publisher.Publish(context.Background(), EventResponseSubmitted, ResponseSubmittedPayload{ResponseID: "r1"}))

	impl, ok := publisher.(*natsEventPublisher)
	require.True(t, ok)
	require.Equal(t, "gema.survey", impl.subject)
}
