package commands

import (
	"testing"
	"time"
)

func SetPublishTimeout(t *testing.T, d time.Duration) {
	prev := publishTimeout
	publishTimeout = d
	t.Cleanup(func() { publishTimeout = prev })
}
