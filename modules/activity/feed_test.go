package activity

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func entry(i int) Entry {
	return Entry{Kind: KindMessagePosted, Summary: fmt.Sprintf("m%d", i), At: time.Unix(int64(i), 0)}
}

func summaries(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Summary
	}
	return out
}

func TestFeed_RecentNewestFirst(t *testing.T) {
	f := NewFeed(5)
	for i := 1; i <= 3; i++ {
		f.Add(entry(i))
	}

	got := summaries(f.Recent(0))
	want := []string{"m3", "m2", "m1"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Recent(0) = %v, want %v", got, want)
	}

	if got := summaries(f.Recent(2)); fmt.Sprint(got) != fmt.Sprint([]string{"m3", "m2"}) {
		t.Errorf("Recent(2) = %v", got)
	}
}

func TestFeed_EvictsOldest(t *testing.T) {
	f := NewFeed(3)
	for i := 1; i <= 7; i++ {
		f.Add(entry(i))
	}

	if f.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", f.Len())
	}
	got := summaries(f.Recent(10))
	want := []string{"m7", "m6", "m5"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Recent(10) = %v, want %v", got, want)
	}
}

func TestFeed_DefaultSize(t *testing.T) {
	if got := NewFeed(0).Cap(); got != DefaultFeedSize {
		t.Errorf("Cap() = %d, want %d", got, DefaultFeedSize)
	}
	if got := NewFeed(0).Recent(5); len(got) != 0 {
		t.Errorf("empty feed returned %d entries", len(got))
	}
}

func TestFeed_ConcurrentAdd(t *testing.T) {
	f := NewFeed(10)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.Add(entry(i))
			_ = f.Recent(3)
		}(i)
	}
	wg.Wait()

	if f.Len() != 10 {
		t.Errorf("Len() = %d, want 10", f.Len())
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		body string
		n    int
		want string
	}{
		{body: "short", n: 10, want: "short"},
		{body: "exactly", n: 7, want: "exactly"},
		{body: "truncated body", n: 9, want: "truncated..."},
		{body: "héllo wörld", n: 5, want: "héllo..."},
	}

	for _, tt := range tests {
		if got := summarize(tt.body, tt.n); got != tt.want {
			t.Errorf("summarize(%q, %d) = %q, want %q", tt.body, tt.n, got, tt.want)
		}
	}
}
