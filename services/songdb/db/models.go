package db

type Song struct {
	ID          string
	Title       string
	Artist      string
	ReleaseDate int64
	Agency      string
	Credits     string
	IsTracking  bool
	FetchMinute int64
}
