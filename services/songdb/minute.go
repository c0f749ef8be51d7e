package songdb

import "hash/fnv"

// fetchMinute assigns a song a stable minute of the hour in 1..59.
// Spreading songs over the hour keeps the scrape load flat, and
// skipping minute 0 leaves room for the hourly catalog update.
func fetchMinute(songID string) int64 {
	h := fnv.New32a()
	h.Write([]byte(songID))
	return int64(h.Sum32()%59) + 1
}
