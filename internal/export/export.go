// Package export implements the asynchronous playlist export pipeline: the
// API enqueues a job on a durable queue, and a separate worker process
// assembles the export document and mails it out.
package export

import "soundcrate/internal/store"

// QueueName is the durable queue both producer and worker agree on.
const QueueName = "export:playlists"

// Attachment constants for the delivered document.
const (
	AttachmentFilename    = "playlist.json"
	AttachmentContentType = "application/json"
)

// Job is the queue payload. It is transient: it lives only in the queue
// medium and carries no lifecycle of its own.
type Job struct {
	PlaylistID  string `json:"playlistId"`
	TargetEmail string `json:"targetEmail"`
}

// Document is the assembled export body. Songs reflect playlist membership
// at read time, not at enqueue time.
type Document struct {
	Playlist Playlist `json:"playlist"`
}

// Playlist is the exported playlist with its songs inline.
type Playlist struct {
	ID    string              `json:"id"`
	Name  string              `json:"name"`
	Songs []store.SongSummary `json:"songs"`
}
