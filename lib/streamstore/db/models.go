package db

type SongSnapshot struct {
	SongID    string
	Time      int64
	Plays     int64
	Listeners int64
}
