package tmdb

// Image sizes requested from the TMDB image CDN.
const (
	PosterSize    = "w342"
	BackdropSize  = "w780"
	ProfileSize   = "w185"
	ThumbnailSize = "w185"
)

// DefaultImageBaseURL is the TMDB image CDN root.
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/"

// ImageURL expands a relative TMDB image path into an absolute URL for the
// given size. An empty path yields nil rather than a dangling base URL.
func ImageURL(base, size, path string) *string {
	if path == "" {
		return nil
	}
	u := base + size + path
	return &u
}
