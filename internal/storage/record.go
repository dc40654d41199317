package storage

// Origin describes where an image's bytes came from.
type Origin string

const (
	OriginUpload    Origin = "upload"
	OriginRemoteURL Origin = "remote-url"
)

// ImageRecord describes a stored source image. The record is created at
// acquisition and never changes afterwards; normalization rewrites the bytes
// behind Path but keeps the same identifier.
type ImageRecord struct {
	// ID is the collision-resistant opaque identifier, also the filename
	// inside the data directory.
	ID string
	// Path is the absolute or data-dir-relative location of the stored bytes.
	Path string
	// Origin records whether the image arrived as an upload or a URL fetch.
	Origin Origin
	// Source is the original filename (uploads) or URL (remote fetches).
	Source string
	// Size is the raw byte size at acquisition time.
	Size int64
	// ContentType is the declared content type, when one was provided.
	ContentType string
}
