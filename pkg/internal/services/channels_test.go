package services

import "testing"

func TestCallChannelNameSymmetric(t *testing.T) {
	if got, want := CallChannelName(5, 9), "call_5_9"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := CallChannelName(9, 5), "call_5_9"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCallChannelNameStable(t *testing.T) {
	first := CallChannelName(42, 7)
	for i := 0; i < 10; i++ {
		if got := CallChannelName(42, 7); got != first {
			t.Fatalf("channel name changed between calls: %q != %q", got, first)
		}
	}
}
