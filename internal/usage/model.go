package usage

import "time"

// Usage represents a user's generation credit consumption for the current window.
type Usage struct {
	Plan     string    `json:"plan"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}

// Remaining returns the credits left in the current window.
func (u Usage) Remaining() int {
	if u.Used >= u.Limit {
		return 0
	}
	return u.Limit - u.Used
}

func (u Usage) expired(now time.Time) bool {
	return !now.Before(u.ResetsAt)
}
