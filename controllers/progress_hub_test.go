package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressHubFanOut(t *testing.T) {
	hub := NewProgressHub()

	a := hub.Subscribe(1)
	b := hub.Subscribe(1)
	other := hub.Subscribe(2)

	hub.Publish(ProgressEvent{CampaignID: 1, Percent: 50})

	for _, ch := range []chan ProgressEvent{a, b} {
		select {
		case event := <-ch:
			assert.Equal(t, 50, event.Percent)
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}

	select {
	case <-other:
		t.Fatal("subscriber of another campaign received the event")
	default:
	}
}

func TestProgressHubUnsubscribe(t *testing.T) {
	hub := NewProgressHub()
	ch := hub.Subscribe(3)
	hub.Unsubscribe(3, ch)

	hub.Publish(ProgressEvent{CampaignID: 3, Percent: 100})
	select {
	case <-ch:
		t.Fatal("unsubscribed channel received an event")
	default:
	}
}

func TestProgressHubSlowSubscriberDropsEvents(t *testing.T) {
	hub := NewProgressHub()
	ch := hub.Subscribe(4)

	// Overfill the buffer; publishing must not block
	for i := 0; i < 40; i++ {
		hub.Publish(ProgressEvent{CampaignID: 4, Percent: i})
	}
	require.Len(t, ch, cap(ch))
}

func TestThumbnailPathFor(t *testing.T) {
	assert.Equal(t,
		"campaign-media/7/thumbnails/1725100000000.jpg",
		thumbnailPathFor("campaign-media/7/1725100000000.mp4"))
	assert.Equal(t,
		"campaign-media/7/thumbnails/1725100000000.jpg",
		thumbnailPathFor("campaign-media/7/1725100000000.png"))
}
