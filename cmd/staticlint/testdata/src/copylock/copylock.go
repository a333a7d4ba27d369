package copylock

import (
	"sync"
)

func copyLock() {
	var mu sync.Mutex
	muCopy := mu // want "assignment copies lock value to muCopy: sync.Mutex"
	muCopy.Lock()
}
