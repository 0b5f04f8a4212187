package export

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundcrate/internal/store"
)

type fakeReader struct {
	playlists map[string]store.PlaylistSummary
	songs     map[string][]store.SongSummary
}

func (f *fakeReader) PlaylistByID(_ context.Context, id string) (store.PlaylistSummary, error) {
	p, ok := f.playlists[id]
	if !ok {
		return store.PlaylistSummary{}, store.ErrPlaylistNotFound
	}
	return p, nil
}

func (f *fakeReader) PlaylistSongs(_ context.Context, playlistID string) ([]store.SongSummary, error) {
	return f.songs[playlistID], nil
}

type delivery struct {
	target      string
	filename    string
	contentType string
	attachment  []byte
}

type fakeNotifier struct {
	deliveries []delivery
	err        error
}

func (f *fakeNotifier) Deliver(_ context.Context, target string, attachment []byte, filename, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.deliveries = append(f.deliveries, delivery{
		target:      target,
		filename:    filename,
		contentType: contentType,
		attachment:  attachment,
	})
	return nil
}

func newTestReader() *fakeReader {
	return &fakeReader{
		playlists: map[string]store.PlaylistSummary{
			"playlist-1": {ID: "playlist-1", Name: "Road Trip"},
		},
		songs: map[string][]store.SongSummary{
			"playlist-1": {
				{ID: "song-1", Title: "Life in Technicolor", Performer: "Coldplay"},
				{ID: "song-2", Title: "Cemeteries of London", Performer: "Coldplay"},
			},
		},
	}
}

func TestHandleDeliversDocument(t *testing.T) {
	reader := newTestReader()
	notifier := &fakeNotifier{}
	w := NewWorker(reader, notifier, zerolog.Nop())

	body, err := json.Marshal(Job{PlaylistID: "playlist-1", TargetEmail: "fan@example.com"})
	require.NoError(t, err)

	w.Handle(context.Background(), body)

	require.Len(t, notifier.deliveries, 1)
	got := notifier.deliveries[0]
	assert.Equal(t, "fan@example.com", got.target)
	assert.Equal(t, AttachmentFilename, got.filename)
	assert.Equal(t, AttachmentContentType, got.contentType)

	var doc Document
	require.NoError(t, json.Unmarshal(got.attachment, &doc))
	assert.Equal(t, "playlist-1", doc.Playlist.ID)
	assert.Equal(t, "Road Trip", doc.Playlist.Name)
	require.Len(t, doc.Playlist.Songs, 2)
	assert.Equal(t, "Life in Technicolor", doc.Playlist.Songs[0].Title)
}

func TestHandleEmptyPlaylist(t *testing.T) {
	reader := newTestReader()
	reader.songs["playlist-1"] = nil
	notifier := &fakeNotifier{}
	w := NewWorker(reader, notifier, zerolog.Nop())

	body, err := json.Marshal(Job{PlaylistID: "playlist-1", TargetEmail: "fan@example.com"})
	require.NoError(t, err)

	w.Handle(context.Background(), body)

	require.Len(t, notifier.deliveries, 1)

	// songs must marshal as an empty array, not null.
	assert.Contains(t, string(notifier.deliveries[0].attachment), `"songs":[]`)
}

func TestHandleMissingPlaylistDropsMessage(t *testing.T) {
	reader := newTestReader()
	notifier := &fakeNotifier{}
	w := NewWorker(reader, notifier, zerolog.Nop())

	body, err := json.Marshal(Job{PlaylistID: "playlist-gone", TargetEmail: "fan@example.com"})
	require.NoError(t, err)

	w.Handle(context.Background(), body)

	assert.Empty(t, notifier.deliveries)
}

func TestHandleMalformedPayloadThenValid(t *testing.T) {
	reader := newTestReader()
	notifier := &fakeNotifier{}
	w := NewWorker(reader, notifier, zerolog.Nop())

	w.Handle(context.Background(), []byte("{not json"))
	assert.Empty(t, notifier.deliveries)

	body, err := json.Marshal(Job{PlaylistID: "playlist-1", TargetEmail: "fan@example.com"})
	require.NoError(t, err)
	w.Handle(context.Background(), body)

	assert.Len(t, notifier.deliveries, 1)
}

func TestHandleDeliveryFailureIsTerminal(t *testing.T) {
	reader := newTestReader()
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	w := NewWorker(reader, notifier, zerolog.Nop())

	body, err := json.Marshal(Job{PlaylistID: "playlist-1", TargetEmail: "fan@example.com"})
	require.NoError(t, err)

	// Must not panic or retry; the failure is logged and the message dropped.
	w.Handle(context.Background(), body)
	assert.Empty(t, notifier.deliveries)
}

func TestRunDrainsChannelUntilClosed(t *testing.T) {
	reader := newTestReader()
	notifier := &fakeNotifier{}
	w := NewWorker(reader, notifier, zerolog.Nop())

	body, err := json.Marshal(Job{PlaylistID: "playlist-1", TargetEmail: "fan@example.com"})
	require.NoError(t, err)

	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Body: []byte("{not json")}
	deliveries <- amqp.Delivery{Body: body}
	deliveries <- amqp.Delivery{Body: body}
	close(deliveries)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background(), deliveries)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after channel close")
	}

	assert.Len(t, notifier.deliveries, 2)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	w := NewWorker(newTestReader(), &fakeNotifier{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx, make(chan amqp.Delivery))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
