package connector

import "fmt"

// ConnectionStats is a snapshot of connection pool state.
type ConnectionStats struct {
	MaxOpen         int
	OpenConnections int
	InUse           int
	Idle            int
	WaitCount       int64
}

func (s ConnectionStats) String() string {
	return fmt.Sprintf("open=%d in_use=%d idle=%d max=%d waited=%d",
		s.OpenConnections, s.InUse, s.Idle, s.MaxOpen, s.WaitCount)
}
