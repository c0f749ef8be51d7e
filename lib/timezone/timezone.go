package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		panic(err)
	}
}

// Genie reports everything in KST. Force all date math into that zone
// so that Year()/Month()/Day()/Hour() manipulation stays stable no
// matter where the process happens to run.
func Now() time.Time {
	return time.Now().In(Location)
}

// CeilHour returns t rounded up to the next top of the hour,
// or t itself if it is already on one.
func CeilHour(t time.Time) time.Time {
	truncated := t.Truncate(time.Hour)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(time.Hour)
}
