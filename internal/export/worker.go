package export

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"soundcrate/internal/store"
)

// PlaylistReader is the slice of the store the worker reads from.
type PlaylistReader interface {
	PlaylistByID(ctx context.Context, id string) (store.PlaylistSummary, error)
	PlaylistSongs(ctx context.Context, playlistID string) ([]store.SongSummary, error)
}

// Notifier delivers the assembled document to an external address. The
// transport behind it is out of the worker's hands.
type Notifier interface {
	Deliver(ctx context.Context, target string, attachment []byte, filename, contentType string) error
}

// Worker consumes export jobs one at a time. It keeps no state between
// messages: each delivery is an independent unit of work, and no failure of
// a single message may stop the loop.
type Worker struct {
	reader   PlaylistReader
	notifier Notifier
	log      zerolog.Logger
}

// NewWorker constructs a Worker.
func NewWorker(reader PlaylistReader, notifier Notifier, log zerolog.Logger) *Worker {
	return &Worker{reader: reader, notifier: notifier, log: log}
}

// Run drains the delivery channel until it closes or the context is
// cancelled. Deliveries are consumed with auto-ack: each message gets at
// most one handling attempt, and failures are logged and dropped.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("export worker stopping")
			return
		case delivery, ok := <-deliveries:
			if !ok {
				w.log.Info().Msg("export delivery channel closed")
				return
			}
			w.Handle(ctx, delivery.Body)
		}
	}
}

// Handle runs one message through the export states: decode, fetch,
// assemble, deliver. Every failure is terminal for the message only.
func (w *Worker) Handle(ctx context.Context, body []byte) {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		w.log.Error().Err(err).Msg("dropping malformed export message")
		return
	}

	log := w.log.With().
		Str("playlist_id", job.PlaylistID).
		Str("target_email", job.TargetEmail).
		Logger()
	log.Info().Msg("processing export request")

	playlist, err := w.reader.PlaylistByID(ctx, job.PlaylistID)
	if err != nil {
		if errors.Is(err, store.ErrPlaylistNotFound) {
			log.Warn().Msg("playlist no longer exists, dropping export request")
		} else {
			log.Error().Err(err).Msg("failed to read playlist")
		}
		return
	}

	songs, err := w.reader.PlaylistSongs(ctx, job.PlaylistID)
	if err != nil {
		log.Error().Err(err).Msg("failed to read playlist songs")
		return
	}
	if songs == nil {
		songs = []store.SongSummary{}
	}

	doc := Document{Playlist: Playlist{
		ID:    playlist.ID,
		Name:  playlist.Name,
		Songs: songs,
	}}

	payload, err := json.Marshal(doc)
	if err != nil {
		log.Error().Err(err).Msg("failed to assemble export document")
		return
	}

	if err := w.notifier.Deliver(ctx, job.TargetEmail, payload, AttachmentFilename, AttachmentContentType); err != nil {
		// At most one attempt per message; the job is considered handled.
		log.Error().Err(err).Msg("failed to deliver export email")
		return
	}

	log.Info().Int("songs", len(songs)).Msg("export email sent")
}
