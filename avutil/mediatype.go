//go:build !ios && !android && (amd64 || arm64)

package avutil

// MediaType represents FFmpeg media types (enum AVMediaType).
type MediaType int32

const (
	MediaTypeUnknown    MediaType = -1
	MediaTypeVideo      MediaType = 0
	MediaTypeAudio      MediaType = 1
	MediaTypeData       MediaType = 2
	MediaTypeSubtitle   MediaType = 3
	MediaTypeAttachment MediaType = 4
)

// String returns the name av_get_media_type_string would return.
func (m MediaType) String() string {
	switch m {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeData:
		return "data"
	case MediaTypeSubtitle:
		return "subtitle"
	case MediaTypeAttachment:
		return "attachment"
	default:
		return "unknown"
	}
}

// MarshalText lets media types appear by name in JSON and YAML output.
func (m MediaType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
