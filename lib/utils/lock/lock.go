package lock

import (
	"context"
	"sync"
	"time"
)

var (
	lockMap sync.Map
)

// WithDelay runs safeCode while holding the in-process lock for key.
// success is false when the lock was not acquired within wait.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	isTimeout := time.After(wait)
	for {
		if _, loaded := lockMap.LoadOrStore(key, true); !loaded {
			break
		}
		select {
		case <-isTimeout:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(20 * time.Millisecond):
		}
	}
	defer lockMap.Delete(key)
	return true, safeCode()
}

func ApplicationKey(applicationID string) string {
	return "application:" + applicationID
}

const PermitNumberKey = "permit_number"
const ApplicationNumberKey = "application_number"
