package services

import "fmt"

// CallChannelName derives the channel identifier shared by both participants
// of one call attempt. It is order-independent, so both sides and any retried
// request converge on the same channel.
func CallChannelName(a, b uint) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("call_%d_%d", a, b)
}
