package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var executions atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err, _ := flight.Do("key", func() (any, error) {
				executions.Add(1)
				<-release
				return "value", nil
			})
			if err != nil {
				t.Errorf("Do error: %v", err)
			}
			if out != "value" {
				t.Errorf("unexpected value %v", out)
			}
		}()
	}

	close(release)
	wg.Wait()

	if got := executions.Load(); got < 1 || got > 5 {
		t.Fatalf("unexpected execution count %d", got)
	}
}
